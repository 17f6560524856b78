package main

import (
	"log"
	"strings"
	"time"

	"go-tindahan-pos/internal/checkout"
	"go-tindahan-pos/internal/config"
	"go-tindahan-pos/internal/database"
	"go-tindahan-pos/internal/handlers"
	"go-tindahan-pos/internal/logger"
	"go-tindahan-pos/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := config.Load()
	appLog := logger.New()

	database.Connect(cfg.DatabaseDSN)

	orchestrator := checkout.NewOrchestrator(
		checkout.NewGormStore(database.DB),
		appLog.With().Str("component", "checkout").Logger(),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(appLog))

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login(cfg))

	// Only opens if we explicitly allow it in .env
	if cfg.AllowRegistration {
		r.POST("/register", handlers.Register)
		log.Println("WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("Registration route is disabled.")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// POS surface
		api.GET("/products", handlers.GetProducts)
		api.GET("/categories", handlers.GetCategories)
		api.POST("/checkout", handlers.Checkout(orchestrator, cfg.TaxRate))

		// Transaction history
		api.GET("/transactions", handlers.GetTransactions)
		api.GET("/transactions/:id", handlers.GetTransaction)

		// Settings
		api.GET("/profile", handlers.GetProfile)
		api.PUT("/profile", handlers.UpdateProfile)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI(cfg.GeminiAPIKey))

			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.POST("/categories", handlers.AddCategory)
			admin.DELETE("/transactions/:id", handlers.DeleteTransaction)

			admin.GET("/reports/export", handlers.ExportTransactions)
			admin.GET("/reports/summary", handlers.GetSalesReport)
			admin.GET("/reports/revenue-chart", handlers.GetRevenueChart)
			admin.GET("/reports/top-products", handlers.GetTopProducts)
			admin.GET("/reports/slow-moving", handlers.GetSlowMovingItems)
			admin.GET("/reports/inventory", handlers.GetInventorySummary)
		}
	}

	appLog.Info().Str("port", cfg.HTTPPort).Msg("server starting")
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
