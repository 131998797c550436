package database

import (
	"log"

	"cargo/config"
	"cargo/utils"
)

// RunMigrations runs all database migrations
func RunMigrations() error {
	log.Println("Running database migrations...")

	if err := DB.AutoMigrate(
		&Customer{},
		&AdminUser{},
		&Branch{},
		&VehicleType{},
		&Vehicle{},
		&Reservation{},
		&Rental{},
		&Payment{},
	); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedAdminUser creates the admin account named by ADMIN_EMAIL and
// ADMIN_PASSWORD when it does not exist yet. No admin is created when
// those variables are unset.
func SeedAdminUser() error {
	email := config.AppConfig.AdminEmail
	password := config.AppConfig.AdminPassword
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := DB.Model(&AdminUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := AdminUser{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin user %s", email)
	return nil
}
