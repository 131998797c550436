package booking

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"cargo/database"
)

// PaymentInput carries the fields needed to record a payment.
type PaymentInput struct {
	RentalID   uint
	CustomerID uint
	Amount     float64
	Method     string
	Remarks    string
}

// RecordPayment appends a payment to the rental's ledger. The rental must
// belong to the paying customer. Cumulative payments are not checked
// against the rental total; the ledger is append-only.
func RecordPayment(db *gorm.DB, input PaymentInput, now time.Time) (*database.Payment, error) {
	if input.Amount <= 0 {
		return nil, &ValidationError{Message: "amount must be positive"}
	}

	var rental database.Rental
	if err := db.First(&rental, input.RentalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "rental not found"}
		}
		return nil, err
	}
	if rental.CustomerID != input.CustomerID {
		return nil, &ForbiddenError{Message: "you are not allowed to pay for this rental"}
	}

	method := input.Method
	if method == "" {
		method = database.PaymentMethodCash
	}

	payment := &database.Payment{
		RentalID: input.RentalID,
		Amount:   input.Amount,
		Method:   method,
		Remarks:  input.Remarks,
		PaidAt:   now,
	}
	if err := db.Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}
