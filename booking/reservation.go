package booking

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"cargo/database"
)

// createRetries bounds the retry loop around serialization failures.
const createRetries = 3

// ReservationInput carries the fields needed to create a reservation.
type ReservationInput struct {
	CustomerID      uint
	VehicleID       uint
	PickupBranchID  uint
	DropoffBranchID uint
	StartDate       time.Time
	EndDate         time.Time
}

// CreateReservation books a vehicle for the given date range. The
// availability check and the insert run in a single SERIALIZABLE
// transaction so two concurrent requests cannot both observe "available"
// and insert overlapping BOOKED rows; serialization failures are retried
// and resolve to a ConflictError when the winner's row is visible.
func CreateReservation(db *gorm.DB, input ReservationInput) (*database.Reservation, error) {
	if input.EndDate.Before(input.StartDate) {
		return nil, &ValidationError{Message: "start_date must not be after end_date"}
	}

	var reservation *database.Reservation
	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		reservation, err = tryCreateReservation(db, input)
		if err != nil && isSerializationFailure(err) {
			continue
		}
		return reservation, err
	}
	return reservation, err
}

func tryCreateReservation(db *gorm.DB, input ReservationInput) (*database.Reservation, error) {
	reservation := &database.Reservation{
		CustomerID:      input.CustomerID,
		VehicleID:       input.VehicleID,
		PickupBranchID:  input.PickupBranchID,
		DropoffBranchID: input.DropoffBranchID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          database.ReservationStatusBooked,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var vehicle database.Vehicle
		if err := tx.First(&vehicle, input.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "vehicle not found"}
			}
			return err
		}

		available, err := CheckAvailability(tx, input.VehicleID, input.StartDate, input.EndDate)
		if err != nil {
			return err
		}
		if !available {
			return &ConflictError{Message: "vehicle is not available in that date range"}
		}

		return tx.Create(reservation).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// isSerializationFailure reports whether err is a postgres serialization
// failure (SQLSTATE 40001), the signal to retry the booking transaction.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001"
	}
	return false
}

// legalTransitions are the reservation status edges an administrator may
// set directly. CONVERTED is only reachable through StartRental, so it is
// absent here; admin overrides do not bypass the lifecycle.
var legalTransitions = map[string][]string{
	database.ReservationStatusBooked:    {database.ReservationStatusCancelled},
	database.ReservationStatusConverted: {database.ReservationStatusCompleted},
}

// UpdateReservationStatus applies an administrative status change,
// restricted to the legal lifecycle edges.
func UpdateReservationStatus(db *gorm.DB, reservationID uint, newStatus string) (*database.Reservation, error) {
	var reservation database.Reservation
	if err := db.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "reservation not found"}
		}
		return nil, err
	}

	allowed := false
	for _, next := range legalTransitions[reservation.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &InvalidStateError{
			Message: "cannot change reservation status from " + reservation.Status + " to " + newStatus,
		}
	}

	reservation.Status = newStatus
	if err := db.Save(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}
