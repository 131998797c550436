package routes

import (
	"github.com/gin-gonic/gin"

	"cargo/controllers"
	"cargo/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine) {
	// Public routes (no authentication required)
	public := r.Group("/api")
	{
		public.GET("/health", controllers.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}
		public.POST("/admin/login", controllers.AdminLogin)

		// Catalog (public view for non-authenticated users)
		public.GET("/branches", controllers.GetBranches)
		public.GET("/vehicle-types", controllers.GetVehicleTypes)
		public.GET("/vehicles/available", controllers.GetAvailableVehicles)
	}

	// Protected routes (authentication required)
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		// Reservations
		reservations := protected.Group("/reservations")
		{
			reservations.POST("", controllers.CreateReservation)
			reservations.GET("/my", controllers.GetMyReservations)
		}

		// Rentals
		rentals := protected.Group("/rentals")
		{
			rentals.POST("/start", controllers.StartRental)
			rentals.POST("/close", controllers.CloseRental)
			rentals.GET("/my", controllers.GetMyRentals)
		}

		// Payments
		payments := protected.Group("/payments")
		{
			payments.POST("", controllers.CreatePayment)
			payments.GET("/my", controllers.GetMyPayments)
			payments.POST("/order", controllers.GeneratePaymentOrder)
		}

		// Admin routes
		admin := protected.Group("")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.POST("/branches", controllers.CreateBranch)
			admin.PUT("/branches/:id", controllers.UpdateBranch)
			admin.DELETE("/branches/:id", controllers.DeleteBranch)

			admin.POST("/vehicle-types", controllers.CreateVehicleType)
			admin.PUT("/vehicle-types/:id", controllers.UpdateVehicleType)
			admin.DELETE("/vehicle-types/:id", controllers.DeleteVehicleType)

			admin.POST("/vehicles", controllers.CreateVehicle)
			admin.PUT("/vehicles/:id", controllers.UpdateVehicle)
			admin.DELETE("/vehicles/:id", controllers.DeleteVehicle)
			admin.POST("/vehicles/:id/images", controllers.UploadVehicleImage)
			admin.DELETE("/vehicles/:id/images/:filename", controllers.DeleteVehicleImage)

			admin.GET("/admin/reservations", controllers.AdminGetReservations)
			admin.PUT("/admin/reservations/:id", controllers.AdminUpdateReservationStatus)
		}
	}
}
