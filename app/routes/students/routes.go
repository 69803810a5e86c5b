package students

import (
	"github.com/gofiber/fiber/v2"

	"github.com/azimystic/UTS-SMS-sub001/app/config"
	"github.com/azimystic/UTS-SMS-sub001/app/routes/auth"
)

// SetupStudentsRoutes sets up the student and class lookup routes
func SetupStudentsRoutes(app *fiber.App) {
	api := app.Group("/api/students")
	api.Use(auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error {
		return GetStudentsAPI(c, config.GetDB())
	})

	api.Post("/", func(c *fiber.Ctx) error {
		return CreateStudentAPI(c, config.GetDB())
	})

	api.Get("/:id", func(c *fiber.Ctx) error {
		return GetStudentByIDAPI(c, config.GetDB())
	})

	classesAPI := app.Group("/api/classes")
	classesAPI.Use(auth.AuthMiddleware)

	classesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetClassesAPI(c, config.GetDB())
	})
}
