package billing

import (
	"github.com/gofiber/fiber/v2"

	"github.com/azimystic/UTS-SMS-sub001/app/billing"
	"github.com/azimystic/UTS-SMS-sub001/app/config"
	"github.com/azimystic/UTS-SMS-sub001/app/database"
	"github.com/azimystic/UTS-SMS-sub001/app/routes/auth"
)

// SetupBillingRoutes sets up the billing, payment and reporting routes
func SetupBillingRoutes(app *fiber.App) {
	engine := billing.NewEngine(database.NewBillingRepository(config.GetDB()))

	api := app.Group("/api/billing")
	api.Use(auth.AuthMiddleware)

	api.Get("/preview", func(c *fiber.Ctx) error {
		return PreviewBillingAPI(c, engine)
	})

	api.Post("/commit", func(c *fiber.Ctx) error {
		return CommitBillingAPI(c, engine)
	})

	api.Get("/students/:id/fines", func(c *fiber.Ctx) error {
		return GetUnpaidFinesAPI(c, engine)
	})

	api.Post("/students/:id/fines", func(c *fiber.Ctx) error {
		return CreateFineAPI(c, config.GetDB())
	})

	api.Get("/students/:id/ledger", func(c *fiber.Ctx) error {
		return GetLedgerHistoryAPI(c, engine)
	})

	// Fee schedule administration
	api.Get("/fee-schedules/:classId", func(c *fiber.Ctx) error {
		return GetFeeScheduleAPI(c, config.GetDB())
	})

	api.Put("/fee-schedules/:classId", func(c *fiber.Ctx) error {
		return UpsertFeeScheduleAPI(c, config.GetDB())
	})

	// Extra charge catalogue
	api.Get("/charges", func(c *fiber.Ctx) error {
		return GetExtraChargesAPI(c, config.GetDB())
	})

	api.Post("/charges", func(c *fiber.Ctx) error {
		return CreateExtraChargeAPI(c, config.GetDB())
	})

	api.Delete("/charges/:id", func(c *fiber.Ctx) error {
		return DeleteExtraChargeAPI(c, config.GetDB())
	})

	// Reports
	api.Get("/reports/dues-summary", func(c *fiber.Ctx) error {
		return GetDuesSummaryAPI(c, config.GetDB())
	})

	api.Get("/reports/defaulters", func(c *fiber.Ctx) error {
		return GetDefaultersAPI(c, config.GetDB())
	})

	// Online payment accounts
	accounts := app.Group("/api/accounts")
	accounts.Use(auth.AuthMiddleware)

	accounts.Get("/", func(c *fiber.Ctx) error {
		return GetOnlineAccountsAPI(c, config.GetDB())
	})

	accounts.Post("/", func(c *fiber.Ctx) error {
		return CreateOnlineAccountAPI(c, config.GetDB())
	})

	accounts.Patch("/:id/active", func(c *fiber.Ctx) error {
		return SetOnlineAccountActiveAPI(c, config.GetDB())
	})

	accounts.Delete("/:id", func(c *fiber.Ctx) error {
		return DeleteOnlineAccountAPI(c, config.GetDB())
	})

	// Staff salary arrangements
	salary := app.Group("/api/salary-links")
	salary.Use(auth.AuthMiddleware, auth.RoleMiddleware("admin", "bursar"))

	salary.Get("/students/:id", func(c *fiber.Ctx) error {
		return GetSalaryLinkAPI(c, config.GetDB())
	})

	salary.Post("/", func(c *fiber.Ctx) error {
		return CreateSalaryLinkAPI(c, config.GetDB())
	})

	salary.Delete("/:id", func(c *fiber.Ctx) error {
		return DeactivateSalaryLinkAPI(c, config.GetDB())
	})

	salary.Put("/definitions/:staffId", func(c *fiber.Ctx) error {
		return UpsertSalaryDefinitionAPI(c, config.GetDB())
	})
}
