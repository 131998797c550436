package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"

	"cargo/booking"
	"cargo/config"
	"cargo/database"
)

// PaymentRequest contains the data for recording a payment
type PaymentRequest struct {
	RentalID uint    `json:"rental_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Method   string  `json:"method"`
	Remarks  string  `json:"remarks"`
}

// CreatePayment records a payment against the customer's own rental
func CreatePayment(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	payment, err := booking.RecordPayment(database.DB, booking.PaymentInput{
		RentalID:   req.RentalID,
		CustomerID: customerID,
		Amount:     req.Amount,
		Method:     req.Method,
		Remarks:    req.Remarks,
	}, time.Now())
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Payment recorded successfully",
		"payment_id": payment.ID,
	})
}

// PaymentSummary is one row of the customer's payment history
type PaymentSummary struct {
	PaymentID uint      `json:"payment_id"`
	RentalID  uint      `json:"rental_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Remarks   string    `json:"remarks"`
	PaidAt    time.Time `json:"paid_at"`
}

// GetMyPayments lists the authenticated customer's payment history
func GetMyPayments(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var payments []PaymentSummary
	err := database.DB.Table("payments").
		Select(`payments.id as payment_id,
			payments.rental_id,
			payments.amount,
			payments.method,
			payments.remarks,
			payments.paid_at`).
		Joins("JOIN rentals ON payments.rental_id = rentals.id").
		Where("rentals.customer_id = ?", customerID).
		Where("payments.deleted_at IS NULL").
		Order("payments.paid_at DESC").
		Find(&payments).Error
	if err != nil {
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, payments)
}

// PaymentOrderRequest names the rental an online payment order is for
type PaymentOrderRequest struct {
	RentalID uint `json:"rental_id" binding:"required"`
}

// GeneratePaymentOrder creates a Razorpay order for a closed rental's
// total so the frontend can collect an online payment. Available only
// when the gateway is configured.
func GeneratePaymentOrder(c *gin.Context) {
	if config.AppConfig.RazorpayKey == "" || config.AppConfig.RazorpaySecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Online payments are not configured"})
		return
	}

	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req PaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	var rental database.Rental
	if err := database.DB.First(&rental, req.RentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rental not found"})
			return
		}
		log.Printf("Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if rental.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to pay for this rental"})
		return
	}
	if rental.DropoffDatetime == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rental is not closed yet"})
		return
	}

	client := razorpay.NewClient(config.AppConfig.RazorpayKey, config.AppConfig.RazorpaySecret)
	data := map[string]interface{}{
		"amount":   int(rental.TotalAmount * 100), // smallest currency unit
		"currency": "INR",
		"receipt":  "rental_" + time.Now().Format("20060102150405"),
	}
	order, err := client.Order.Create(data, nil)
	if err != nil {
		log.Printf("Razorpay error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order["id"],
		"amount":   data["amount"],
		"currency": data["currency"],
		"key":      config.AppConfig.RazorpayKey,
	})
}
