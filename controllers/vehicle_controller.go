package controllers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cargo/booking"
	"cargo/database"
	"cargo/storage"
)

// ImageStore holds the configured vehicle image store; set from main.
var ImageStore storage.ImageStore

// VehicleRequest contains the data for vehicle create/update
type VehicleRequest struct {
	RegistrationNo string `json:"registration_no" binding:"required"`
	Make           string `json:"make" binding:"required"`
	Model          string `json:"model" binding:"required"`
	YearMade       int    `json:"year_made"`
	VehicleTypeID  uint   `json:"vehicle_type_id" binding:"required"`
	BranchID       uint   `json:"branch_id" binding:"required"`
	Status         string `json:"status"`
}

// GetAvailableVehicles lists vehicles available for an optional date
// range, type and branch
func GetAvailableVehicles(c *gin.Context) {
	var filter booking.AvailabilityFilter

	if typeStr := c.Query("vehicle_type_id"); typeStr != "" {
		typeID, err := strconv.ParseUint(typeStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle_type_id"})
			return
		}
		filter.VehicleTypeID = uint(typeID)
	}
	if branchStr := c.Query("branch_id"); branchStr != "" {
		branchID, err := strconv.ParseUint(branchStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch_id"})
			return
		}
		filter.BranchID = uint(branchID)
	}

	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr != "" && endStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		filter.StartDate = &start
		filter.EndDate = &end
	}

	vehicles, err := booking.ListAvailableVehicles(database.DB, filter)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func vehicleStatusValid(status string) bool {
	switch status {
	case database.VehicleStatusAvailable, database.VehicleStatusRented, database.VehicleStatusMaintenance:
		return true
	}
	return false
}

// CreateVehicle creates a new vehicle (admin only)
func CreateVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	status := req.Status
	if status == "" {
		status = database.VehicleStatusAvailable
	}
	if !vehicleStatusValid(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle status"})
		return
	}

	vehicle := database.Vehicle{
		RegistrationNo: req.RegistrationNo,
		Make:           req.Make,
		CarModel:       req.Model,
		YearMade:       req.YearMade,
		VehicleTypeID:  req.VehicleTypeID,
		BranchID:       req.BranchID,
		Status:         status,
	}
	if err := database.DB.Create(&vehicle).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vehicle created", "vehicle_id": vehicle.ID})
}

// UpdateVehicle updates an existing vehicle (admin only)
func UpdateVehicle(c *gin.Context) {
	vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	if req.Status != "" && !vehicleStatusValid(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle status"})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
			return
		}
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	vehicle.RegistrationNo = req.RegistrationNo
	vehicle.Make = req.Make
	vehicle.CarModel = req.Model
	vehicle.YearMade = req.YearMade
	vehicle.VehicleTypeID = req.VehicleTypeID
	vehicle.BranchID = req.BranchID
	if req.Status != "" {
		vehicle.Status = req.Status
	}
	if err := database.DB.Save(&vehicle).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle updated"})
}

// DeleteVehicle deletes a vehicle (admin only)
func DeleteVehicle(c *gin.Context) {
	vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	if err := database.DB.Delete(&database.Vehicle{}, vehicleID).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

// UploadVehicleImage uploads an image for a vehicle and stores its URL on
// the vehicle record (admin only, multipart field "image")
func UploadVehicleImage(c *gin.Context) {
	vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle database.Vehicle
	if err := database.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
			return
		}
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	defer file.Close()

	filename := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	url, err := ImageStore.Save(c.Request.Context(), filename, file)
	if err != nil {
		log.Printf("Upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	vehicle.ImageURL = url
	if err := database.DB.Save(&vehicle).Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upload successful", "url": url})
}

// DeleteVehicleImage removes a stored image and unsets the vehicle's
// image URL when it points at that file (admin only)
func DeleteVehicleImage(c *gin.Context) {
	vehicleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}
	filename := c.Param("filename")
	if filename == "" || strings.Contains(filename, "/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}

	if err := ImageStore.Delete(c.Request.Context(), filename); err != nil {
		log.Printf("Delete error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}

	if err := database.DB.Model(&database.Vehicle{}).
		Where("id = ? AND image_url = ?", vehicleID, ImageStore.URL(filename)).
		Update("image_url", "").Error; err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
