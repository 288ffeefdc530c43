package main

import (
	"log"
	"os"

	"partspos/internal/database"
	"partspos/internal/handler"
	"partspos/internal/middleware"
	"partspos/internal/repository"
	"partspos/internal/service"
	"partspos/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Parts POS API
// @version         1.0
// @description     Point-of-sale and inventory/accounting backend for a parts retailer.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	distributorRepo := repository.NewDistributorRepository(db)
	salesRepo := repository.NewSalesOrderRepository(db)
	purchaseRepo := repository.NewPurchaseOrderRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	userService := service.NewUserService(userRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, customerRepo, distributorRepo)
	inventoryService := service.NewInventoryService(txManager, productRepo, movementRepo, wsHub)
	salesService := service.NewSalesService(txManager, salesRepo, productRepo, movementRepo, customerRepo, ledgerService, wsHub)
	purchaseService := service.NewPurchaseService(txManager, purchaseRepo, productRepo, movementRepo, distributorRepo, ledgerService, wsHub)
	customerService := service.NewCustomerService(txManager, customerRepo, salesRepo, ledgerRepo, ledgerService)
	distributorService := service.NewDistributorService(txManager, distributorRepo, productRepo, purchaseRepo, ledgerRepo)
	expenseService := service.NewExpenseService(txManager, expenseRepo, ledgerService)
	analyticsService := service.NewAnalyticsService(analyticsRepo, customerRepo, distributorRepo, salesRepo, purchaseRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(inventoryService, purchaseService)
	salesHandler := handler.NewSalesHandler(salesService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	customerHandler := handler.NewCustomerHandler(customerService)
	distributorHandler := handler.NewDistributorHandler(distributorService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	productHandler.RegisterRoutes(router.Group(""))
	salesHandler.RegisterRoutes(router.Group(""))
	purchaseHandler.RegisterRoutes(router.Group(""))
	customerHandler.RegisterRoutes(router.Group(""))
	distributorHandler.RegisterRoutes(router.Group(""))
	ledgerHandler.RegisterRoutes(router.Group(""))
	expenseHandler.RegisterRoutes(router.Group(""))
	analyticsHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
