package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cargo/booking"
	"cargo/database"
)

// ReservationRequest contains the data for reservation creation
type ReservationRequest struct {
	VehicleID       uint   `json:"vehicle_id" binding:"required"`
	PickupBranchID  uint   `json:"pickup_branch_id" binding:"required"`
	DropoffBranchID uint   `json:"dropoff_branch_id" binding:"required"`
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
}

// CreateReservation books a vehicle for the authenticated customer
func CreateReservation(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	reservation, err := booking.CreateReservation(database.DB, booking.ReservationInput{
		CustomerID:      customerID,
		VehicleID:       req.VehicleID,
		PickupBranchID:  req.PickupBranchID,
		DropoffBranchID: req.DropoffBranchID,
		StartDate:       start,
		EndDate:         end,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Reservation created successfully",
		"reservation_id": reservation.ID,
	})
}

// ReservationSummary is one row of the customer's reservation listing
type ReservationSummary struct {
	ReservationID  uint      `json:"reservation_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status"`
	VehicleMake    string    `json:"vehicle_make"`
	VehicleModel   string    `json:"vehicle_model"`
	RegistrationNo string    `json:"registration_no"`
	PickupBranch   string    `json:"pickup_branch"`
	DropoffBranch  string    `json:"dropoff_branch"`
}

// GetMyReservations lists the authenticated customer's reservations with
// vehicle and branch names joined in
func GetMyReservations(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var reservations []ReservationSummary
	err := database.DB.Table("reservations").
		Select(`reservations.id as reservation_id,
			reservations.start_date,
			reservations.end_date,
			reservations.status,
			vehicles.make as vehicle_make,
			vehicles.model as vehicle_model,
			vehicles.registration_no,
			pb.name as pickup_branch,
			db.name as dropoff_branch`).
		Joins("JOIN vehicles ON reservations.vehicle_id = vehicles.id").
		Joins("JOIN branches pb ON reservations.pickup_branch_id = pb.id").
		Joins("JOIN branches db ON reservations.dropoff_branch_id = db.id").
		Where("reservations.customer_id = ?", customerID).
		Where("reservations.deleted_at IS NULL").
		Order("reservations.start_date DESC").
		Find(&reservations).Error
	if err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// AdminGetReservations lists all reservations (admin only)
func AdminGetReservations(c *gin.Context) {
	var reservations []database.Reservation
	err := database.DB.
		Preload("Customer").
		Preload("Vehicle").
		Preload("PickupBranch").
		Preload("DropoffBranch").
		Order("start_date DESC").
		Find(&reservations).Error
	if err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// UpdateReservationStatusRequest contains the new status for an admin
// reservation update
type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateReservationStatus applies an administrative status change,
// restricted to the legal lifecycle transitions
func AdminUpdateReservationStatus(c *gin.Context) {
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	var req UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	reservation, err := booking.UpdateReservationStatus(database.DB, uint(reservationID), req.Status)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Reservation status updated",
		"reservation": reservation,
	})
}
