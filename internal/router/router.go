// internal/router/router.go
package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fortexuz/fortex-backend/internal/config"
	"github.com/fortexuz/fortex-backend/internal/handlers"
	"github.com/fortexuz/fortex-backend/internal/middleware"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/services"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

const version = "1.0.0"

func Initialize(store *repository.Store, notifier services.Notifier, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	productService := services.NewProductService(store.Products, notifier)
	cartService := services.NewCartService(store.Products, store.Carts)
	orderService := services.NewOrderService(store, notifier, services.WithLoyaltyRate(cfg.Loyalty.UZSPerPoint))
	recommendationService := services.NewRecommendationService(store.Products)
	authService := services.NewAuthService(store.Users, services.BcryptHasher{}, cfg)
	userService := services.NewUserService(store.Users, orderService)
	bookingService := services.NewBookingService(store.Bookings, notifier)
	preferenceService := services.NewPreferenceService(store.Preferences, cfg.I18n.DefaultLocale)
	paymentService := services.NewPaymentService(orderService, cfg)
	adminService := services.NewAdminService(store, productService)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService, storageService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, userService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	limits := middleware.NewRateLimits(cfg.Server.RateLimit)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	r.Use(middleware.SessionMiddleware())
	r.Use(middleware.I18nMiddleware(preferenceService))
	r.Use(limits.General)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(middleware.OptionalAuth())
	{
		v1.GET("/categories", productHandler.GetCategories)

		// Catalog routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/facets", productHandler.GetFacets)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/price", productHandler.GetPrice)
			products.POST("/:id/reviews", limits.Checkout, productHandler.CreateReview)
		}

		// Session cart routes
		cart := v1.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PATCH("/items", cartHandler.AdjustItem)
			cart.DELETE("", cartHandler.ClearCart)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", limits.Checkout, orderHandler.PlaceOrder)
			orders.GET("/mine", middleware.AuthRequired(), orderHandler.GetMyOrders)
		}

		recommendations := v1.Group("/recommendations")
		{
			recommendations.GET("", recommendationHandler.Recommend)
			recommendations.GET("/brands", recommendationHandler.GetBrands)
			recommendations.GET("/brands/:brand/models", recommendationHandler.GetModels)
		}

		v1.POST("/bookings", limits.Checkout, bookingHandler.CreateBooking)

		preferences := v1.Group("/preferences")
		{
			preferences.GET("/language", preferenceHandler.GetLanguage)
			preferences.PUT("/language", preferenceHandler.SetLanguage)
		}

		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(limits.Auth)
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/admin", authHandler.AdminLogin)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.POST("/garage", userHandler.AddCar)
			users.DELETE("/garage/:carId", userHandler.RemoveCar)
		}

		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("/intent", paymentHandler.CreatePaymentIntent)
			payments.POST("/confirm", paymentHandler.ConfirmPayment)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLogMiddleware(store.Audit))
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", productHandler.CreateProduct)
				adminProducts.PUT("/:id", productHandler.UpdateProduct)
				adminProducts.DELETE("/:id", productHandler.DeleteProduct)
				adminProducts.POST("/:id/image", limits.Upload, productHandler.UploadProductImage)
				adminProducts.POST("/import", limits.Upload, adminHandler.ImportProducts)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", orderHandler.GetOrders)
				adminOrders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
			}

			admin.GET("/stats", adminHandler.GetDashboardStats)
			admin.POST("/stats/reset", adminHandler.ResetStats)
			admin.GET("/export", adminHandler.ExportWorkbook)
			admin.GET("/bookings", bookingHandler.GetBookings)
		}
	}

	// Locally stored product images
	if dir := storageService.LocalDir(); dir != "" {
		r.Static(services.LocalUploadsPath, dir)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept-Language", middleware.SessionHeader},
		ExposeHeaders: []string{middleware.SessionHeader, "X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
