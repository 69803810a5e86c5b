package billing

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/azimystic/UTS-SMS-sub001/app/database"
	"github.com/azimystic/UTS-SMS-sub001/app/models"
)

// GetOnlineAccountsAPI lists the registered online payment accounts.
func GetOnlineAccountsAPI(c *fiber.Ctx, db *sql.DB) error {
	accounts, err := database.GetOnlineAccounts(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch accounts")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    accounts,
	})
}

// CreateOnlineAccountAPI registers a bank or mobile-money account.
func CreateOnlineAccountAPI(c *fiber.Ctx, db *sql.DB) error {
	type CreateAccountRequest struct {
		Name          string `json:"name" validate:"required"`
		Provider      string `json:"provider" validate:"required"`
		AccountNumber string `json:"account_number" validate:"required"`
	}

	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	account := &models.OnlineAccount{
		Name:          req.Name,
		Provider:      req.Provider,
		AccountNumber: req.AccountNumber,
	}
	if err := database.CreateOnlineAccount(db, account); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create account")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    account,
	})
}

// SetOnlineAccountActiveAPI toggles whether an account may receive new payments.
func SetOnlineAccountActiveAPI(c *fiber.Ctx, db *sql.DB) error {
	type SetActiveRequest struct {
		IsActive bool `json:"is_active"`
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := database.SetOnlineAccountActive(db, c.Params("id"), req.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update account")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account updated",
	})
}

// DeleteOnlineAccountAPI retires an account. Past transactions keep their reference.
func DeleteOnlineAccountAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.SoftDeleteOnlineAccount(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete account")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account deleted",
	})
}
