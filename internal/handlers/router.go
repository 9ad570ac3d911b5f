package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"debtwise/internal/middleware"
	"debtwise/internal/services"
)

// RouterConfig tunes the router built by NewRouter.
type RouterConfig struct {
	// RecentLimit caps the dashboard's recent transaction list.
	RecentLimit int
	// Swagger mounts the API documentation under /swagger.
	Swagger bool
}

// NewRouter wires the services over db and registers every route.
func NewRouter(db *gorm.DB, cfg RouterConfig) *gin.Engine {
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	debtService := services.NewDebtService(db)
	transactionService := services.NewTransactionService(db, categoryService, debtService)
	summaryService := services.NewSummaryService(transactionService, debtService, categoryService, cfg.RecentLimit)
	exportService := services.NewExportService(transactionService, debtService)

	authHandler := NewAuthHandler(userService)
	categoryHandler := NewCategoryHandler(categoryService)
	debtHandler := NewDebtHandler(debtService)
	transactionHandler := NewTransactionHandler(transactionService, exportService)
	summaryHandler := NewSummaryHandler(summaryService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.DELETE("/profile", authHandler.DeleteProfile)

	protected.GET("/summary", summaryHandler.GetMonthlySummary)
	protected.GET("/dashboard", summaryHandler.GetDashboard)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	debts := protected.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.GetUserDebts)
	debts.GET("/:id", debtHandler.GetDebtByID)
	debts.PUT("/:id", debtHandler.UpdateDebt)
	debts.DELETE("/:id", debtHandler.DeleteDebt)
	debts.GET("/:id/payments", debtHandler.GetDebtPayments)
	debts.GET("/:id/projection", debtHandler.ProjectPayoff)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)

	return router
}
