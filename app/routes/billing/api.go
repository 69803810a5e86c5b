package billing

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/azimystic/UTS-SMS-sub001/app/billing"
	"github.com/azimystic/UTS-SMS-sub001/app/database"
	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

var validate = validator.New()

// ChargeItemRequest is one extra charge line on a billing submission.
type ChargeItemRequest struct {
	ExtraChargeID string          `json:"extra_charge_id" validate:"omitempty,uuid"`
	Title         string          `json:"title" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// CommitBillingRequest is the create-or-update + pay submission body.
type CommitBillingRequest struct {
	StudentID       string              `json:"student_id" validate:"required,uuid"`
	ForMonth        int                 `json:"for_month" validate:"required,min=1,max=12"`
	ForYear         int                 `json:"for_year" validate:"required,min=2000,max=2100"`
	Fine            decimal.Decimal     `json:"fine"`
	ExtraItems      []ChargeItemRequest `json:"extra_items" validate:"dive"`
	AmountPaid      decimal.Decimal     `json:"amount_paid"`
	CashPaid        decimal.Decimal     `json:"cash_paid"`
	OnlinePaid      decimal.Decimal     `json:"online_paid"`
	OnlineAccountID *string             `json:"online_account_id" validate:"omitempty,uuid"`
	PaymentDate     *models.CustomTime  `json:"payment_date"`
}

// billingError maps engine sentinel errors to HTTP statuses.
func billingError(err error) error {
	switch {
	case errors.Is(err, billing.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, billing.ErrMissingFeeSchedule):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, billing.ErrMissingOnlineAccount):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, billing.ErrAlreadySettled):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, billing.ErrRecordExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, billing.ErrPaymentSplitMismatch):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, billing.ErrInvalidAmount):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Billing operation failed")
	}
}

// PreviewBillingAPI computes the proposed bill for a student and period without
// writing anything.
func PreviewBillingAPI(c *fiber.Ctx, engine *billing.Engine) error {
	studentID := c.Query("student_id")
	month := c.QueryInt("month")
	year := c.QueryInt("year")

	if studentID == "" || month == 0 || year == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "student_id, month and year are required")
	}

	draft, err := engine.ResolveBillingPreview(c.Context(), studentID, billing.Period{Month: month, Year: year})
	if err != nil {
		return billingError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    draft,
	})
}

// CommitBillingAPI creates or updates the billing record for the period and records
// the submitted payment in one transaction.
func CommitBillingAPI(c *fiber.Ctx, engine *billing.Engine) error {
	var req CommitBillingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	paymentDate := time.Time{}
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.Time
	}

	receivedBy := ""
	if firstName, ok := c.Locals("user_first_name").(string); ok {
		receivedBy = firstName
		if lastName, ok := c.Locals("user_last_name").(string); ok && lastName != "" {
			receivedBy += " " + lastName
		}
	}

	items := make([]billing.ChargeItemInput, len(req.ExtraItems))
	for i, it := range req.ExtraItems {
		items[i] = billing.ChargeItemInput{
			ExtraChargeID: it.ExtraChargeID,
			Title:         it.Title,
			Amount:        it.Amount,
		}
	}

	result, err := engine.CommitBilling(c.Context(), billing.CommitRequest{
		StudentID:  req.StudentID,
		Period:     billing.Period{Month: req.ForMonth, Year: req.ForYear},
		Fine:       req.Fine,
		ExtraItems: items,
		Payment: billing.PaymentInput{
			AmountPaid:      req.AmountPaid,
			CashPaid:        req.CashPaid,
			OnlinePaid:      req.OnlinePaid,
			OnlineAccountID: req.OnlineAccountID,
			PaymentDate:     paymentDate,
			ReceivedBy:      receivedBy,
		},
	})
	if err != nil {
		return billingError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// GetUnpaidFinesAPI lists a student's outstanding fine charges.
func GetUnpaidFinesAPI(c *fiber.Ctx, engine *billing.Engine) error {
	fines, err := engine.GetUnpaidFines(c.Context(), c.Params("id"))
	if err != nil {
		return billingError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fines,
	})
}

// CreateFineAPI raises an ad hoc fine or charge against a student.
func CreateFineAPI(c *fiber.Ctx, db *sql.DB) error {
	type CreateFineRequest struct {
		Title  string          `json:"title" validate:"required"`
		Amount decimal.Decimal `json:"amount"`
	}

	var req CreateFineRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !req.Amount.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
	}

	fine := &models.StudentFineCharge{
		StudentID: c.Params("id"),
		Title:     req.Title,
		Amount:    req.Amount,
	}
	if err := database.CreateStudentFine(db, fine); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create fine")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fine,
	})
}

// GetLedgerHistoryAPI returns a student's billing records with their transactions,
// optionally bounded by from/to dates.
func GetLedgerHistoryAPI(c *fiber.Ctx, engine *billing.Engine) error {
	var from, to time.Time
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid from date")
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid to date")
		}
		to = parsed
	}

	records, err := engine.GetLedgerHistory(c.Context(), c.Params("id"), from, to)
	if err != nil {
		return billingError(err)
	}

	entries := make([]*models.LedgerEntryResponse, len(records))
	for i, r := range records {
		entries[i] = &models.LedgerEntryResponse{
			BillingRecord: *r,
			TotalPayable:  r.TotalPayable(),
			TotalPaid:     r.TotalPaid(),
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
	})
}

// GetFeeScheduleAPI returns the fee schedule for a class on a campus.
func GetFeeScheduleAPI(c *fiber.Ctx, db *sql.DB) error {
	campusID := c.Query("campus_id")
	if campusID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "campus_id is required")
	}

	fs, err := database.GetClassFeeSchedule(db, c.Params("classId"), campusID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "No fee schedule for this class")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee schedule")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fs,
	})
}

// UpsertFeeScheduleAPI creates or replaces the fee schedule for a class.
func UpsertFeeScheduleAPI(c *fiber.Ctx, db *sql.DB) error {
	type FeeScheduleRequest struct {
		CampusID     string          `json:"campus_id" validate:"required,uuid"`
		TuitionFee   decimal.Decimal `json:"tuition_fee"`
		AdmissionFee decimal.Decimal `json:"admission_fee"`
	}

	var req FeeScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.TuitionFee.IsNegative() || req.AdmissionFee.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "Fees cannot be negative")
	}

	fs := &models.ClassFeeSchedule{
		ClassID:      c.Params("classId"),
		CampusID:     req.CampusID,
		TuitionFee:   req.TuitionFee,
		AdmissionFee: req.AdmissionFee,
	}
	if err := database.UpsertClassFeeSchedule(db, fs); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save fee schedule")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fs,
	})
}

// GetExtraChargesAPI returns the extra charge catalogue for a campus.
func GetExtraChargesAPI(c *fiber.Ctx, db *sql.DB) error {
	campusID := c.Query("campus_id")
	if campusID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "campus_id is required")
	}

	charges, err := database.GetExtraCharges(db, campusID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch charges")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    charges,
	})
}

// CreateExtraChargeAPI adds a charge to the catalogue, with optional targeting rows.
func CreateExtraChargeAPI(c *fiber.Ctx, db *sql.DB) error {
	type TargetRequest struct {
		StudentID string `json:"student_id" validate:"required,uuid"`
		Excluded  bool   `json:"excluded"`
	}
	type CreateChargeRequest struct {
		Name     string                `json:"name" validate:"required"`
		Amount   decimal.Decimal       `json:"amount"`
		Category models.ChargeCategory `json:"category" validate:"required,oneof=monthly_charges once_per_lifetime once_per_class fine"`
		ClassID  *string               `json:"class_id" validate:"omitempty,uuid"`
		CampusID string                `json:"campus_id" validate:"required,uuid"`
		Targets  []TargetRequest       `json:"targets" validate:"dive"`
	}

	var req CreateChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !req.Amount.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
	}

	charge := &models.ExtraCharge{
		Name:     req.Name,
		Amount:   req.Amount,
		Category: req.Category,
		ClassID:  req.ClassID,
		CampusID: req.CampusID,
	}
	for _, t := range req.Targets {
		charge.Targets = append(charge.Targets, &models.ExtraChargeTarget{
			StudentID: t.StudentID,
			Excluded:  t.Excluded,
		})
	}

	if err := database.CreateExtraCharge(db, charge); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create charge")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    charge,
	})
}

// DeleteExtraChargeAPI retires a catalogue charge.
func DeleteExtraChargeAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.SoftDeleteExtraCharge(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Charge not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete charge")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Charge deleted",
	})
}

// GetDuesSummaryAPI returns billed/paid/outstanding totals per student.
func GetDuesSummaryAPI(c *fiber.Ctx, db *sql.DB) error {
	summary, err := database.GetDuesSummary(db, c.Query("class_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build dues summary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}

// GetDefaultersAPI lists students with outstanding or missing bills.
func GetDefaultersAPI(c *fiber.Ctx, db *sql.DB) error {
	defaulters, err := database.GetDefaulters(db, c.Query("class_id"), time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build defaulters report")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    defaulters,
	})
}
