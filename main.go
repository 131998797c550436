package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cargo/config"
	"cargo/controllers"
	"cargo/database"
	"cargo/routes"
	"cargo/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize config; missing required secrets abort startup
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup router
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Initialize DB
	if err := database.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.SeedAdminUser(); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// Vehicle image storage: S3 when configured, local disk otherwise
	if config.AppConfig.UseS3() {
		store, err := storage.NewS3Store(config.AppConfig)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
		controllers.ImageStore = store
	} else {
		store, err := storage.NewLocalStore(config.AppConfig.UploadDir, "/uploads/vehicles")
		if err != nil {
			log.Fatalf("Failed to initialize upload storage: %v", err)
		}
		controllers.ImageStore = store
		r.Static("/uploads/vehicles", config.AppConfig.UploadDir)
	}

	// Setup routes
	routes.SetupRoutes(r)

	// Start server
	log.Printf("CarGo server running on port %s", config.AppConfig.Port)
	if err := r.Run("0.0.0.0:" + config.AppConfig.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
