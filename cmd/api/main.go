package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/unilift/unilift-backend/internal/database"
	"github.com/unilift/unilift-backend/internal/handlers"
	"github.com/unilift/unilift-backend/internal/lifecycle"
	"github.com/unilift/unilift-backend/internal/middleware"
	"github.com/unilift/unilift-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Printf("Redis unavailable, availability cache disabled: %v", err)
	}

	manager := lifecycle.NewManager(db)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register(db))
		auth.POST("/login", handlers.Login(db))
		auth.POST("/staff-login", handlers.StaffLogin(db))
		auth.POST("/forgot-password", handlers.ForgotPassword(db))
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		requests := protected.Group("/requests")
		{
			requests.POST("", handlers.CreateRequest(db, manager))
			requests.GET("", handlers.GetDriverRequests(db))
			requests.GET("/completed", handlers.GetCompletedToday(db))
			requests.PUT("/:id", handlers.UpdateRequest(db, manager))
			requests.PATCH("/:id", handlers.PatchRequestStatus(db, manager))
			requests.DELETE("/:id", handlers.CancelRequest(db, manager))
			requests.PUT("/:id/rate", handlers.RateRequest(db, manager))
			requests.PUT("/:id/notify", handlers.MarkNotificationRead(db, manager))
		}

		protected.GET("/profile", handlers.GetProfile(db))
		protected.PUT("/profile", handlers.UpdateProfile(db))

		protected.GET("/dashboard/student", handlers.StudentDashboard(db))
		protected.GET("/dashboard/driver", handlers.DriverDashboard(db))
		protected.GET("/notifications", handlers.StudentNotifications(db, manager))

		protected.GET("/stats/driver", handlers.DriverStats(db))
		protected.GET("/stats/driver/monthly", handlers.DriverMonthlyStats(db))
		protected.GET("/stats/driver/yearly", handlers.DriverYearlyStats(db))
		protected.GET("/stats/driver/ratings", handlers.DriverRatings(db))
		protected.GET("/stats/student", handlers.StudentStats(db))

		protected.GET("/vehicle", handlers.GetDriverVehicle(db))
		protected.PATCH("/drivers/:id/availability", handlers.PatchDriverAvailability(db))

		admin := protected.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("/requests/all", handlers.GetAllRequests(db))
			admin.GET("/drivers", handlers.GetDrivers(db))
			admin.POST("/drivers", handlers.AddDriver(db))
			admin.PUT("/drivers/:id", handlers.UpdateDriver(db))
			admin.DELETE("/drivers/:id", handlers.DeleteDriver(db))

			admin.GET("/students", handlers.GetStudents(db))
			admin.POST("/students", handlers.AddStudent(db))
			admin.PUT("/students/:id", handlers.UpdateStudent(db))
			admin.DELETE("/students/:id", handlers.DeleteStudent(db))

			admin.GET("/vehicles", handlers.GetVehicles(db))
			admin.POST("/vehicles", handlers.AddVehicle(db))
			admin.PUT("/vehicles/:id", handlers.UpdateVehicle(db))
			admin.DELETE("/vehicles/:id", handlers.DeleteVehicle(db))

			admin.GET("/reports", handlers.AdminReports(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
