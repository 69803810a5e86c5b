package students

import (
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/database"
	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

var validate = validator.New()

// GetStudentsAPI returns active students with optional search, class and paging
// filters.
func GetStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	filters := database.StudentFilters{
		Search:  c.Query("search"),
		ClassID: c.Query("class_id"),
		Limit:   c.QueryInt("limit", 50),
		Offset:  c.QueryInt("offset", 0),
	}

	students, err := database.GetStudents(db, filters)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    students,
	})
}

// GetStudentByIDAPI returns one student.
func GetStudentByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// CreateStudentAPI registers a new student.
func CreateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	type CreateStudentRequest struct {
		StudentNo                string          `json:"student_no" validate:"required"`
		FirstName                string          `json:"first_name" validate:"required"`
		LastName                 string          `json:"last_name" validate:"required"`
		Gender                   models.Gender   `json:"gender" validate:"required,oneof=male female other"`
		ClassID                  string          `json:"class_id" validate:"required,uuid"`
		CampusID                 string          `json:"campus_id" validate:"required,uuid"`
		TuitionDiscountPercent   decimal.Decimal `json:"tuition_discount_percent"`
		AdmissionDiscountPercent decimal.Decimal `json:"admission_discount_percent"`
	}

	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	hundred := decimal.NewFromInt(100)
	if req.TuitionDiscountPercent.IsNegative() || req.TuitionDiscountPercent.GreaterThan(hundred) ||
		req.AdmissionDiscountPercent.IsNegative() || req.AdmissionDiscountPercent.GreaterThan(hundred) {
		return fiber.NewError(fiber.StatusBadRequest, "Discount percentages must be between 0 and 100")
	}

	student := &models.Student{
		StudentNo:                req.StudentNo,
		FirstName:                req.FirstName,
		LastName:                 req.LastName,
		Gender:                   req.Gender,
		ClassID:                  req.ClassID,
		CampusID:                 req.CampusID,
		TuitionDiscountPercent:   req.TuitionDiscountPercent,
		AdmissionDiscountPercent: req.AdmissionDiscountPercent,
		RegisteredAt:             time.Now(),
	}
	if err := database.CreateStudent(db, student); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// GetClassesAPI returns active classes with student counts.
func GetClassesAPI(c *fiber.Ctx, db *sql.DB) error {
	classes, err := database.GetAllClasses(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch classes")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    classes,
	})
}
