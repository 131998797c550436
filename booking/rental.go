package booking

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"cargo/database"
)

// StartRental converts a BOOKED reservation into an open rental. In one
// transaction it creates the rental with pickup = now, marks the
// reservation CONVERTED and the vehicle RENTED.
func StartRental(db *gorm.DB, reservationID uint, now time.Time) (*database.Rental, error) {
	rental := &database.Rental{}

	err := db.Transaction(func(tx *gorm.DB) error {
		var reservation database.Reservation
		if err := tx.First(&reservation, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "reservation not found"}
			}
			return err
		}
		if reservation.Status != database.ReservationStatusBooked {
			return &InvalidStateError{Message: "reservation is not in BOOKED status"}
		}

		rental.ReservationID = reservation.ID
		rental.VehicleID = reservation.VehicleID
		rental.CustomerID = reservation.CustomerID
		rental.PickupDatetime = now
		rental.Status = database.RentalStatusOpen
		if err := tx.Create(rental).Error; err != nil {
			return err
		}

		reservation.Status = database.ReservationStatusConverted
		if err := tx.Save(&reservation).Error; err != nil {
			return err
		}

		return tx.Model(&database.Vehicle{}).
			Where("id = ?", reservation.VehicleID).
			Update("status", database.VehicleStatusRented).Error
	})

	if err != nil {
		return nil, err
	}
	return rental, nil
}

// CloseRental closes an open rental at time now. The total is the elapsed
// duration rounded up to whole days (minimum one day) times the vehicle
// type's daily rate. The vehicle returns to AVAILABLE at the dropoff
// branch and the reservation is marked COMPLETED.
func CloseRental(db *gorm.DB, rentalID, dropoffBranchID uint, now time.Time) (*database.Rental, error) {
	rental := &database.Rental{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(rental, rentalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "rental not found"}
			}
			return err
		}
		if rental.DropoffDatetime != nil {
			return &InvalidStateError{Message: "rental is already closed"}
		}

		var branch database.Branch
		if err := tx.First(&branch, dropoffBranchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Message: "dropoff branch not found"}
			}
			return err
		}

		var vehicle database.Vehicle
		if err := tx.First(&vehicle, rental.VehicleID).Error; err != nil {
			return err
		}
		var vehicleType database.VehicleType
		if err := tx.First(&vehicleType, vehicle.VehicleTypeID).Error; err != nil {
			return err
		}

		rental.DropoffDatetime = &now
		rental.DropoffBranchID = &dropoffBranchID
		rental.Status = database.RentalStatusCompleted
		rental.TotalAmount = float64(BillableDays(rental.PickupDatetime, now)) * vehicleType.DailyRate
		if err := tx.Save(rental).Error; err != nil {
			return err
		}

		if err := tx.Model(&database.Reservation{}).
			Where("id = ?", rental.ReservationID).
			Update("status", database.ReservationStatusCompleted).Error; err != nil {
			return err
		}

		return tx.Model(&database.Vehicle{}).
			Where("id = ?", rental.VehicleID).
			Updates(map[string]interface{}{
				"status":    database.VehicleStatusAvailable,
				"branch_id": dropoffBranchID,
			}).Error
	})

	if err != nil {
		return nil, err
	}
	return rental, nil
}

// BillableDays returns the elapsed duration between pickup and dropoff
// rounded up to whole days, with a minimum of one day.
func BillableDays(pickup, dropoff time.Time) int {
	days := int(math.Ceil(dropoff.Sub(pickup).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
