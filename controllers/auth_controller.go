package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cargo/config"
	"cargo/database"
	"cargo/utils"
)

// RegisterRequest contains the data for customer registration
type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone"`
	LicenseNo     string `json:"license_no"`
	LicenseExpiry string `json:"license_expiry"`
	Address       string `json:"address"`
	NationalID    string `json:"national_id"`
}

// LoginRequest contains the credentials for customer login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles customer registration
func Register(c *gin.Context) {
	var registerRequest RegisterRequest

	if err := c.ShouldBindJSON(&registerRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	// Check if email already exists
	var count int64
	if err := database.DB.Model(&database.Customer{}).
		Where("email = ?", registerRequest.Email).Count(&count).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	passwordHash, err := utils.HashPassword(registerRequest.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing registration"})
		return
	}

	// Split "name" into first + last the way the registration form sends it
	parts := strings.Fields(registerRequest.Name)
	firstName := ""
	lastName := ""
	if len(parts) > 0 {
		firstName = parts[0]
		lastName = strings.Join(parts[1:], " ")
	}

	customer := database.Customer{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        registerRequest.Email,
		PasswordHash: passwordHash,
		Phone:        registerRequest.Phone,
		LicenseNo:    registerRequest.LicenseNo,
		Address:      registerRequest.Address,
		NationalID:   registerRequest.NationalID,
	}

	if registerRequest.LicenseExpiry != "" {
		expiry, err := time.Parse("2006-01-02", registerRequest.LicenseExpiry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "license_expiry must be YYYY-MM-DD"})
			return
		}
		customer.LicenseExpiry = &expiry
	}

	if err := database.DB.Create(&customer).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	expirationTime := time.Now().Add(config.GetJWTExpiration())
	token, err := utils.GenerateJWT(customer.ID, customer.Email, false, expirationTime)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Registration successful",
		"token":       token,
		"customer_id": customer.ID,
	})
}

// Login handles customer authentication and returns a JWT token
func Login(c *gin.Context) {
	var loginRequest LoginRequest

	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var customer database.Customer
	result := database.DB.Where("email = ?", loginRequest.Email).First(&customer)
	if result.Error != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(loginRequest.Password, customer.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	expirationTime := time.Now().Add(config.GetJWTExpiration())
	token, err := utils.GenerateJWT(customer.ID, customer.Email, false, expirationTime)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	name := strings.TrimSpace(customer.FirstName + " " + customer.LastName)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    customer.ID,
			"name":  name,
			"email": customer.Email,
		},
	})
}
