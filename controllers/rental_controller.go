package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cargo/booking"
	"cargo/database"
)

// StartRentalRequest contains the data for starting a rental
type StartRentalRequest struct {
	ReservationID uint `json:"reservation_id" binding:"required"`
}

// CloseRentalRequest contains the data for closing a rental
type CloseRentalRequest struct {
	RentalID        uint `json:"rental_id" binding:"required"`
	DropoffBranchID uint `json:"dropoff_branch_id" binding:"required"`
}

// StartRental converts a BOOKED reservation into an open rental
func StartRental(c *gin.Context) {
	var req StartRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	rental, err := booking.StartRental(database.DB, req.ReservationID, time.Now())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rental started successfully",
		"rental_id": rental.ID,
	})
}

// CloseRental closes an open rental and returns the computed total
func CloseRental(c *gin.Context) {
	var req CloseRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	rental, err := booking.CloseRental(database.DB, req.RentalID, req.DropoffBranchID, time.Now())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Rental closed successfully",
		"total_amount": rental.TotalAmount,
	})
}

// RentalSummary is one row of the customer's rental listing
type RentalSummary struct {
	RentalID        uint       `json:"rental_id"`
	PickupDatetime  time.Time  `json:"pickup_datetime"`
	DropoffDatetime *time.Time `json:"dropoff_datetime"`
	Status          string     `json:"status"`
	Make            string     `json:"make"`
	Model           string     `json:"model"`
	RegistrationNo  string     `json:"registration_no"`
	TotalAmount     float64    `json:"total_amount"`
}

// GetMyRentals lists the authenticated customer's rentals
func GetMyRentals(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var rentals []RentalSummary
	err := database.DB.Table("rentals").
		Select(`rentals.id as rental_id,
			rentals.pickup_datetime,
			rentals.dropoff_datetime,
			rentals.status,
			vehicles.make,
			vehicles.model,
			vehicles.registration_no,
			rentals.total_amount`).
		Joins("JOIN vehicles ON rentals.vehicle_id = vehicles.id").
		Where("rentals.customer_id = ?", customerID).
		Where("rentals.deleted_at IS NULL").
		Order("rentals.pickup_datetime DESC").
		Find(&rentals).Error
	if err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, rentals)
}
