package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/frychicken/internal/config"
	"github.com/example/frychicken/internal/handlers"
	"github.com/example/frychicken/internal/middleware"
	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/services"
	"github.com/example/frychicken/internal/store/postgres"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	st := postgres.New(db)

	pointsService := services.NewPointsService(st, cfg.PointsEnabled, cfg.PointsConversionRate)
	notificationService := services.NewNotificationService(st)
	lifecycleService := services.NewLifecycleService(st, pointsService, notificationService, cfg.CancelWindow)
	claimService := services.NewClaimService(st, notificationService)

	authHandler := handlers.NewAuthHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(lifecycleService, st)
	deliveryHandler := handlers.NewDeliveryHandler(db, lifecycleService, claimService, st)
	branchHandler := handlers.NewBranchHandler(lifecycleService, claimService, st)
	pointsHandler := handlers.NewPointsHandler(pointsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/courier-login", authHandler.CourierLogin)

	// Customer routes
	customer := api.Group("", middleware.AuthMiddleware(cfg),
		middleware.RequireRoles(models.RoleCustomer, models.RoleAdmin))
	customer.Post("/orders", orderHandler.CreateOrder)
	customer.Get("/orders", orderHandler.ListOrders)
	customer.Get("/orders/:id", orderHandler.GetOrder)
	customer.Post("/orders/:id/cancel", orderHandler.CancelOrder)
	customer.Post("/orders/:id/rating", orderHandler.RateDelivery)
	customer.Get("/points", pointsHandler.GetPoints)
	customer.Post("/points/redeem", pointsHandler.Redeem)

	// Courier console
	delivery := api.Group("/delivery", middleware.AuthMiddleware(cfg),
		middleware.RequireRoles(models.RoleDelivery))
	delivery.Get("/orders/available", deliveryHandler.AvailableOrders)
	delivery.Get("/orders", deliveryHandler.MyOrders)
	delivery.Post("/orders/:id/claim", deliveryHandler.ClaimOrder)
	delivery.Post("/orders/:id/received", deliveryHandler.ConfirmReceived)
	delivery.Post("/orders/:id/delivered", deliveryHandler.MarkDelivered)
	delivery.Post("/orders/:id/reject", deliveryHandler.RejectOrder)
	delivery.Post("/orders/:id/delay", deliveryHandler.DelayOrder)
	delivery.Put("/duty", deliveryHandler.SetDuty)

	// Branch console
	branch := api.Group("/branch", middleware.AuthMiddleware(cfg),
		middleware.RequireRoles(models.RoleBranch))
	branch.Get("/orders", branchHandler.ListOrders)
	branch.Put("/orders/:id/status", branchHandler.UpdateOrderStatus)
	branch.Post("/orders/:id/assign", branchHandler.AssignDelivery)
	branch.Post("/orders/:id/claim-approval", branchHandler.ApproveClaim)
	branch.Post("/orders/:id/reject", branchHandler.RejectOrder)
	branch.Get("/notifications", notificationHandler.List)
	branch.Put("/notifications/:id/read", notificationHandler.MarkRead)
	branch.Get("/notifications/unread-count", notificationHandler.UnreadCount)

	// Admin console
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg),
		middleware.RequireRoles(models.RoleAdmin))
	admin.Get("/branches", adminHandler.ListBranches)
	admin.Post("/branches", adminHandler.CreateBranch)
	admin.Put("/branches/:id", adminHandler.UpdateBranch)
	admin.Get("/couriers", adminHandler.ListCouriers)
	admin.Post("/couriers", adminHandler.CreateCourier)
	admin.Put("/couriers/:id/status", adminHandler.SetCourierStatus)
	admin.Get("/orders", adminHandler.ListAllOrders)
}
