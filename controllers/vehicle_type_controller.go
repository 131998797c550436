package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cargo/database"
)

// VehicleTypeRequest contains the data for vehicle type create/update
type VehicleTypeRequest struct {
	Name        string  `json:"type_name" binding:"required"`
	DailyRate   float64 `json:"daily_rate" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// GetVehicleTypes lists all vehicle types ordered by daily rate
func GetVehicleTypes(c *gin.Context) {
	var types []database.VehicleType
	if err := database.DB.Order("daily_rate").Find(&types).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateVehicleType creates a new vehicle type (admin only)
func CreateVehicleType(c *gin.Context) {
	var req VehicleTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	vehicleType := database.VehicleType{
		Name:        req.Name,
		DailyRate:   req.DailyRate,
		Description: req.Description,
	}
	if err := database.DB.Create(&vehicleType).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle type"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vehicle type created", "vehicle_type_id": vehicleType.ID})
}

// UpdateVehicleType updates an existing vehicle type (admin only)
func UpdateVehicleType(c *gin.Context) {
	typeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle type ID"})
		return
	}

	var req VehicleTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var vehicleType database.VehicleType
	if err := database.DB.First(&vehicleType, typeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle type not found"})
			return
		}
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	vehicleType.Name = req.Name
	vehicleType.DailyRate = req.DailyRate
	vehicleType.Description = req.Description
	if err := database.DB.Save(&vehicleType).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle type updated"})
}

// DeleteVehicleType deletes a vehicle type (admin only)
func DeleteVehicleType(c *gin.Context) {
	typeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle type ID"})
		return
	}

	if err := database.DB.Delete(&database.VehicleType{}, typeID).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle type deleted"})
}
