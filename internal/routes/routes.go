package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/example/bikezone/internal/checkout"
	"github.com/example/bikezone/internal/config"
	"github.com/example/bikezone/internal/handlers"
	"github.com/example/bikezone/internal/metrics"
	"github.com/example/bikezone/internal/middleware"
	"github.com/example/bikezone/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, rdb *redis.Client) {
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	geocoder := services.NewGeocodeService(cfg.GeocodeBaseURL)

	var guard *services.SubmitGuard
	if rdb != nil {
		guard = services.NewSubmitGuard(rdb, 30*time.Second)
	}

	sessions := checkout.NewManager(cfg.CheckoutSessionTTL)
	store := checkout.NewGormStore(db)
	orchestrator := checkout.NewOrchestrator(store, store, telegram)

	authHandler := handlers.NewAuthHandler(db, cfg)
	bikeHandler := handlers.NewBikeHandler(db)
	checkoutHandler := handlers.NewCheckoutHandler(db, sessions, orchestrator, geocoder, guard)
	orderHandler := handlers.NewOrderHandler(db)
	reviewHandler := handlers.NewReviewHandler(db)
	userHandler := handlers.NewUserHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/social", authHandler.SocialSignIn)

	// Public catalog and reviews
	bikes := api.Group("/bikes")
	bikes.Get("/", bikeHandler.ListBikes)
	bikes.Get("/featured", bikeHandler.FeaturedBikes)
	bikes.Get("/:id", bikeHandler.GetBike)

	api.Get("/reviews", reviewHandler.ListReviews)
	api.Get("/users/admin/:email", userHandler.IsAdmin)

	// Authenticated routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/users/me", userHandler.Me)
	protected.Post("/reviews", reviewHandler.CreateReview)
	protected.Get("/orders/mine", orderHandler.ListMyOrders)

	co := protected.Group("/checkout/sessions")
	co.Post("/", checkoutHandler.OpenSession)
	co.Get("/:id", checkoutHandler.GetSession)
	co.Patch("/:id/fields", checkoutHandler.PatchFields)
	co.Post("/:id/next", checkoutHandler.Next)
	co.Post("/:id/back", checkoutHandler.Back)
	co.Post("/:id/locate", checkoutHandler.Locate)
	co.Post("/:id/confirm", checkoutHandler.Confirm)
	co.Post("/:id/submit", checkoutHandler.Submit)
	co.Delete("/:id", checkoutHandler.CancelSession)

	// Admin routes
	admin := protected.Group("", middleware.RequireAdmin(db))

	admin.Post("/bikes", bikeHandler.CreateBike)
	admin.Put("/bikes/:id", bikeHandler.UpdateBike)
	admin.Delete("/bikes/:id", bikeHandler.DeleteBike)

	admin.Get("/orders", orderHandler.ListAllOrders)
	admin.Patch("/orders/:id/status", orderHandler.UpdateOrderStatus)
	admin.Delete("/orders/:id", orderHandler.DeleteOrder)
	admin.Get("/payments", orderHandler.ListPayments)

	admin.Get("/users", userHandler.ListUsers)
	admin.Put("/users/:email/admin", userHandler.GrantAdmin)

	admin.Get("/admin/stats", adminHandler.DashboardStats)
}
