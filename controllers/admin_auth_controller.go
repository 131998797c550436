package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cargo/config"
	"cargo/database"
	"cargo/utils"
)

// AdminCredentialStore looks up administrator credentials. The single
// concrete implementation reads the admin_users table; there is no
// heuristic discovery of admin tables or password columns.
type AdminCredentialStore interface {
	FindByEmail(email string) (*database.AdminUser, error)
}

type gormAdminStore struct{}

func (gormAdminStore) FindByEmail(email string) (*database.AdminUser, error) {
	var admin database.AdminUser
	if err := database.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// AdminStore is swappable in tests.
var AdminStore AdminCredentialStore = gormAdminStore{}

// AdminLogin authenticates an administrator and returns a JWT carrying
// the admin claim
func AdminLogin(c *gin.Context) {
	var loginRequest LoginRequest

	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}

	admin, err := AdminStore.FindByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
			return
		}
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if !utils.CheckPasswordHash(loginRequest.Password, admin.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
		return
	}

	expirationTime := time.Now().Add(config.GetJWTExpiration())
	token, err := utils.GenerateJWT(admin.ID, admin.Email, true, expirationTime)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin login successful",
		"token":   token,
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
		},
	})
}
