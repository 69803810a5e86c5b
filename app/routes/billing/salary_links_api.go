package billing

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/database"
	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// GetSalaryLinkAPI returns a student's active salary arrangement, with the staff
// member's salary definition when one exists.
func GetSalaryLinkAPI(c *fiber.Ctx, db *sql.DB) error {
	link, err := database.GetSalaryLinkByStudent(db, c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch salary link")
	}
	if link == nil {
		return fiber.NewError(fiber.StatusNotFound, "Student has no salary arrangement")
	}

	data := fiber.Map{"link": link}
	if def, err := database.GetSalaryDefinition(db, link.StaffID); err == nil {
		data["salary"] = def
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// CreateSalaryLinkAPI links a student to a staff member's salary. Any previous
// active link for the student is deactivated.
func CreateSalaryLinkAPI(c *fiber.Ctx, db *sql.DB) error {
	type CreateLinkRequest struct {
		StudentID    string                   `json:"student_id" validate:"required,uuid"`
		StaffID      string                   `json:"staff_id" validate:"required,uuid"`
		PaymentMode  models.SalaryPaymentMode `json:"payment_mode" validate:"required,oneof=cut_from_salary custom_ratio"`
		RatioPercent decimal.Decimal          `json:"ratio_percent"`
	}

	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ratio := req.RatioPercent
	if req.PaymentMode == models.PayModeCutFromSalary {
		ratio = decimal.NewFromInt(100)
	}
	if !ratio.IsPositive() || ratio.GreaterThan(decimal.NewFromInt(100)) {
		return fiber.NewError(fiber.StatusBadRequest, "ratio_percent must be between 0 and 100")
	}

	link := &models.StaffSalaryLink{
		StudentID:    req.StudentID,
		StaffID:      req.StaffID,
		PaymentMode:  req.PaymentMode,
		RatioPercent: ratio,
	}
	if err := database.CreateSalaryLink(db, link); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create salary link")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    link,
	})
}

// DeactivateSalaryLinkAPI ends a student's salary arrangement.
func DeactivateSalaryLinkAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.DeactivateSalaryLink(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Salary link not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate salary link")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Salary link deactivated",
	})
}

// UpsertSalaryDefinitionAPI sets a staff member's net salary, the pool shared by
// all of their linked students in a period.
func UpsertSalaryDefinitionAPI(c *fiber.Ctx, db *sql.DB) error {
	type SalaryDefinitionRequest struct {
		NetSalary decimal.Decimal `json:"net_salary"`
	}

	var req SalaryDefinitionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if !req.NetSalary.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "net_salary must be positive")
	}

	def := &models.SalaryDefinition{
		StaffID:   c.Params("staffId"),
		NetSalary: req.NetSalary,
	}
	if err := database.UpsertSalaryDefinition(db, def); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save salary definition")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    def,
	})
}
