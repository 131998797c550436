package booking

import (
	"time"

	"gorm.io/gorm"

	"cargo/database"
)

// activeStatuses are the reservation states that block a vehicle's
// booking window.
var activeStatuses = []string{
	database.ReservationStatusBooked,
	database.ReservationStatusConverted,
}

// CheckAvailability reports whether the vehicle has no BOOKED or CONVERTED
// reservation overlapping [start, end]. Both bounds are inclusive calendar
// dates: intervals [s1,e1] and [s2,e2] overlap iff s1 <= e2 and e1 >= s2.
// Read-only; the caller is responsible for running it inside the same
// transaction as any subsequent insert.
func CheckAvailability(db *gorm.DB, vehicleID uint, start, end time.Time) (bool, error) {
	if end.Before(start) {
		return false, &ValidationError{Message: "start_date must not be after end_date"}
	}

	var count int64
	err := db.Model(&database.Reservation{}).
		Where("vehicle_id = ?", vehicleID).
		Where("status IN ?", activeStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// AvailableVehicle is one row of the available-vehicle listing, with type
// and branch details joined in.
type AvailableVehicle struct {
	VehicleID       uint    `json:"vehicle_id"`
	RegistrationNo  string  `json:"registration_no"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	YearMade        int     `json:"year_made"`
	ImageURL        string  `json:"image_url"`
	TypeName        string  `json:"type_name"`
	TypeDescription string  `json:"type_description"`
	DailyRate       float64 `json:"daily_rate"`
	BranchName      string  `json:"branch_name"`
	City            string  `json:"city"`
	Status          string  `json:"status"`
}

// AvailabilityFilter narrows the available-vehicle listing. A zero type or
// branch id means no filter; the date range only applies when both bounds
// are set.
type AvailabilityFilter struct {
	VehicleTypeID uint
	BranchID      uint
	StartDate     *time.Time
	EndDate       *time.Time
}

// ListAvailableVehicles returns vehicles with status AVAILABLE, optionally
// filtered by type and branch, excluding vehicles reserved anywhere in the
// requested date range.
func ListAvailableVehicles(db *gorm.DB, filter AvailabilityFilter) ([]AvailableVehicle, error) {
	query := db.Table("vehicles").
		Select(`vehicles.id as vehicle_id,
			vehicles.registration_no,
			vehicles.make,
			vehicles.model,
			vehicles.year_made,
			vehicles.image_url,
			vehicle_types.name as type_name,
			vehicle_types.description as type_description,
			vehicle_types.daily_rate,
			branches.name as branch_name,
			branches.city,
			vehicles.status`).
		Joins("JOIN vehicle_types ON vehicle_types.id = vehicles.vehicle_type_id").
		Joins("JOIN branches ON branches.id = vehicles.branch_id").
		Where("vehicles.status = ?", database.VehicleStatusAvailable).
		Where("vehicles.deleted_at IS NULL")

	if filter.VehicleTypeID != 0 {
		query = query.Where("vehicles.vehicle_type_id = ?", filter.VehicleTypeID)
	}
	if filter.BranchID != 0 {
		query = query.Where("vehicles.branch_id = ?", filter.BranchID)
	}

	if filter.StartDate != nil && filter.EndDate != nil {
		if filter.EndDate.Before(*filter.StartDate) {
			return nil, &ValidationError{Message: "start_date must not be after end_date"}
		}
		query = query.Where(`vehicles.id NOT IN (
			SELECT reservations.vehicle_id FROM reservations
			 WHERE reservations.status IN ?
			   AND reservations.start_date <= ?
			   AND reservations.end_date >= ?)`,
			activeStatuses, *filter.EndDate, *filter.StartDate)
	}

	var vehicles []AvailableVehicle
	if err := query.Order("vehicles.id").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}
