package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "resto-tracker/docs" // Import generated docs
	"resto-tracker/internal/config"
	"resto-tracker/internal/controllers"
	"resto-tracker/internal/database"
	"resto-tracker/internal/middleware"
	"resto-tracker/internal/schema"
	"resto-tracker/internal/services"
)

var (
	db                *gorm.DB
	configuration     *config.Config
	authController    controllers.AuthController
	catalogController controllers.CatalogController
	orderController   controllers.OrderController
	reportController  controllers.ReportController
)

// @title Restaurant Order Tracker API
// @version 1.0
// @description Order tracking for a restaurant: catalog, orders with price snapshots, status lifecycle and reports
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection and bring the schema up to date.
	// A failed migration means a partially-initialized schema, so it is
	// fatal: the engines never run against anything but the target schema.
	setupDatabase(configuration)

	// Initialize services and controllers
	accountService := services.NewAccountService(db)
	catalogService := services.NewCatalogService(db)
	orderService := services.NewOrderService(db)
	reportService := services.NewReportService(db)

	authController = controllers.NewAuthController(accountService, configuration.JWTSecret)
	catalogController = controllers.NewCatalogController(catalogService)
	orderController = controllers.NewOrderController(orderService)
	reportController = controllers.NewReportController(reportService)

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects, migrates and seeds. DDL failures are fatal;
// seeding only fails for real errors, never for "already exists".
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	checkPanicErr(schema.Migrate(db))
	checkPanicErr(schema.Seed(db, schema.SeedConfig{
		DefaultAdminPassword: conf.DefaultAdminPassword,
		AdminAccessCode:      conf.AdminAccessCode,
		ChefAccessCode:       conf.ChefAccessCode,
		CourierAccessCode:    conf.CourierAccessCode,
	}))
	return db
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())

	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	jwtSecret := []byte(configuration.JWTSecret)

	v1 := router.Group("/api/v1")
	{
		publicApi := v1.Group("/public")
		{
			publicApi.GET("/categories", catalogController.ListCategories)
			publicApi.GET("/items", catalogController.ListItems)
			publicApi.GET("/items/:id", catalogController.GetItem)
		}

		authApi := v1.Group("/auth")
		{
			authApi.POST("/login", authController.Login)
			authApi.POST("/admin-login", authController.AdminLogin)
			authApi.POST("/register", authController.Register)
			authApi.PUT("/password", middleware.JWTAuth(jwtSecret), authController.ChangePassword)
		}

		// Access-code predicates. Each gated area (admin/chef/courier) has
		// its own code; the client composes the two-step gate itself.
		accessApi := v1.Group("/access")
		{
			accessApi.POST("/:role/verify", authController.VerifyAccess)
			accessApi.PUT("/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole("admin"), authController.ChangeAdminAccessCode)
		}

		// Order lifecycle (requires a session; anonymous orders do not exist)
		ordersApi := v1.Group("/orders")
		ordersApi.Use(middleware.JWTAuth(jwtSecret))
		{
			ordersApi.POST("", orderController.CreateOrder)
			ordersApi.GET("", orderController.ListOrders)
			ordersApi.GET("/mine", orderController.ListMyOrders)
			ordersApi.GET("/deliveries", orderController.ListDeliveries)
			ordersApi.GET("/:id", orderController.GetOrder)
			ordersApi.GET("/:id/next-statuses", orderController.NextStatuses)
			ordersApi.PUT("/:id/lines", orderController.ReplaceLines)
			ordersApi.PUT("/:id/status", orderController.AdvanceStatus)
			ordersApi.POST("/:id/cancel", orderController.CancelByStaff)
			ordersApi.POST("/:id/cancel-own", orderController.CancelByCustomer)
		}

		// Admin-only writes and reports
		protectedApi := v1.Group("/protected")
		protectedApi.Use(middleware.JWTAuth(jwtSecret))
		{
			adminApi := protectedApi.Group("/admin")
			adminApi.Use(middleware.RequireRole("admin"))
			{
				adminApi.POST("/categories", catalogController.AddCategory)
				adminApi.DELETE("/categories/:id", catalogController.DeleteCategory)
				adminApi.POST("/items", catalogController.AddItem)
				adminApi.PUT("/items/:id", catalogController.UpdateItem)
				adminApi.DELETE("/items/:id", catalogController.DeleteItem)
				adminApi.GET("/reports/orders", reportController.ReportOrders)
				adminApi.GET("/reports/top-items", reportController.ReportTopItems)
			}
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "resto-tracker",
	})
}
