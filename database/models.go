package database

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a registered customer account
type Customer struct {
	gorm.Model
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email" gorm:"uniqueIndex"`
	PasswordHash  string     `json:"-"`
	Phone         string     `json:"phone"`
	LicenseNo     string     `json:"license_no"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	Address       string     `json:"address"`
	NationalID    string     `json:"national_id"`
}

// AdminUser represents an administrator account. Admin credentials live
// in their own table with named columns; there is no runtime probing of
// candidate table names.
type AdminUser struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
}

// Branch represents a rental branch location
type Branch struct {
	gorm.Model
	Name    string `json:"branch_name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone_no"`
}

// VehicleType represents a pricing class of vehicles (Economy, SUV, ...)
type VehicleType struct {
	gorm.Model
	Name        string  `json:"type_name"`
	DailyRate   float64 `json:"daily_rate"`
	Description string  `json:"description"`
}

// Vehicle represents a single car in the fleet. Status is informational;
// availability for a date range is derived from reservations.
type Vehicle struct {
	gorm.Model
	RegistrationNo string      `json:"registration_no" gorm:"uniqueIndex"`
	Make           string      `json:"make"`
	CarModel       string      `json:"model" gorm:"column:model"`
	YearMade       int         `json:"year_made"`
	VehicleTypeID  uint        `json:"vehicle_type_id"`
	BranchID       uint        `json:"branch_id"`
	Status         string      `json:"status"`
	ImageURL       string      `json:"image_url"`
	VehicleType    VehicleType `gorm:"foreignKey:VehicleTypeID" json:"vehicle_type"`
	Branch         Branch      `gorm:"foreignKey:BranchID" json:"branch"`
}

// Reservation represents a vehicle booking window. For a given vehicle no
// two reservations with status BOOKED or CONVERTED may overlap.
type Reservation struct {
	gorm.Model
	CustomerID      uint      `json:"customer_id"`
	VehicleID       uint      `json:"vehicle_id" gorm:"index"`
	PickupBranchID  uint      `json:"pickup_branch_id"`
	DropoffBranchID uint      `json:"dropoff_branch_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          string    `json:"status"`
	Customer        Customer  `gorm:"foreignKey:CustomerID" json:"customer"`
	Vehicle         Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle"`
	PickupBranch    Branch    `gorm:"foreignKey:PickupBranchID" json:"pickup_branch"`
	DropoffBranch   Branch    `gorm:"foreignKey:DropoffBranchID" json:"dropoff_branch"`
}

// Rental represents the possession period derived from a converted
// reservation. DropoffDatetime stays nil until the rental is closed.
type Rental struct {
	gorm.Model
	ReservationID   uint        `json:"reservation_id" gorm:"uniqueIndex"`
	VehicleID       uint        `json:"vehicle_id"`
	CustomerID      uint        `json:"customer_id"`
	PickupDatetime  time.Time   `json:"pickup_datetime"`
	DropoffDatetime *time.Time  `json:"dropoff_datetime"`
	DropoffBranchID *uint       `json:"dropoff_branch_id"`
	Status          string      `json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	Reservation     Reservation `gorm:"foreignKey:ReservationID" json:"reservation"`
	Vehicle         Vehicle     `gorm:"foreignKey:VehicleID" json:"vehicle"`
	Customer        Customer    `gorm:"foreignKey:CustomerID" json:"customer"`
}

// Payment represents one entry in the append-only payment ledger. A rental
// may have multiple payments; rows are never updated or deleted.
type Payment struct {
	gorm.Model
	RentalID uint      `json:"rental_id" gorm:"index"`
	Amount   float64   `json:"amount"`
	Method   string    `json:"method"`
	Remarks  string    `json:"remarks"`
	PaidAt   time.Time `json:"paid_at"`
	Rental   Rental    `gorm:"foreignKey:RentalID" json:"rental"`
}

// Constants for status values
const (
	VehicleStatusAvailable   = "AVAILABLE"
	VehicleStatusRented      = "RENTED"
	VehicleStatusMaintenance = "MAINTENANCE"

	ReservationStatusBooked    = "BOOKED"
	ReservationStatusConverted = "CONVERTED"
	ReservationStatusCancelled = "CANCELLED"
	ReservationStatusCompleted = "COMPLETED"

	RentalStatusOpen      = "OPEN"
	RentalStatusCompleted = "COMPLETED"

	PaymentMethodCash   = "CASH"
	PaymentMethodCard   = "CARD"
	PaymentMethodOnline = "ONLINE"
)
