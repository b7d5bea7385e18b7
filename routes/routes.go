package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	controller "hrms/controllers"
	"hrms/middleware"
	"hrms/utils"
)

// Dependencies is everything the HTTP layer needs, built once at process start.
type Dependencies struct {
	DB          *gorm.DB
	Tokens      *utils.TokenService
	Logger      *logrus.Logger
	Metrics     *utils.Metrics
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
}

// NewApp builds the fiber application with middleware and every route mounted.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "hrms",
		ErrorHandler:          utils.ErrorHandler(deps.Logger),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	app.Use(recover.New())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = deps.CORSOrigins
	app.Use(middleware.CORS(corsConfig))

	SetupRoutes(app, deps)
	return app
}

func SetupAuthRoutes(api fiber.Router, authController *controller.AuthController) {
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
}

func SetupAPIRoutes(api fiber.Router, deps Dependencies, auditor *controller.Auditor) {
	employeeController := controller.NewEmployeeController(deps.DB, auditor, deps.Logger)
	teamController := controller.NewTeamController(deps.DB, auditor, deps.Logger)
	logController := controller.NewLogController(deps.DB, deps.Logger)

	protected := middleware.Protected(deps.Tokens)

	// Employee routes
	employee := api.Group("/employees", protected)
	employee.Get("/", employeeController.GetEmployees)
	employee.Get("/:id", employeeController.GetEmployee)
	employee.Post("/", employeeController.CreateEmployee)
	employee.Put("/:id", employeeController.UpdateEmployee)
	employee.Delete("/:id", employeeController.DeleteEmployee)

	// Team routes
	team := api.Group("/teams", protected)
	team.Get("/", teamController.GetTeams)
	team.Get("/:id", teamController.GetTeam)
	team.Post("/", teamController.CreateTeam)
	team.Put("/:id", teamController.UpdateTeam)
	team.Delete("/:id", teamController.DeleteTeam)
	team.Post("/:teamId/assign", teamController.AssignEmployees)
	team.Delete("/:teamId/unassign", teamController.UnassignEmployee)

	// Log routes
	logs := api.Group("/logs", protected)
	logs.Get("/", logController.GetLogs)
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("HRMS API running")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	auditor := controller.NewAuditor(deps.Metrics)
	api := app.Group("/api")
	SetupAuthRoutes(api, controller.NewAuthController(deps.DB, deps.Tokens, auditor, deps.Logger))
	SetupAPIRoutes(api, deps, auditor)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NewNotFoundError("The requested resource was not found")
	})
}
