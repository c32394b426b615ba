package model

import (
	"github.com/alhamw/vehicle-booking-system-sub000/shared/model"
)

const (
	TableName  = "vehicles"
	EntityName = "vehicle"

	FieldID          = "id"
	FieldPlateNumber = "plate_number"
	FieldMake        = "make"
	FieldModel       = "model"
	FieldYear        = "year"
	FieldStatus      = "status"
)

// Vehicle availability states. The synchronizer only ever toggles between
// StatusAvailable and StatusInUse; maintenance and out_of_service are set by
// fleet operators and must never be overwritten by booking activity.
const (
	StatusAvailable    = "available"
	StatusInUse        = "in_use"
	StatusMaintenance  = "maintenance"
	StatusOutOfService = "out_of_service"
)

type Vehicle struct {
	ID          string `db:"id"`
	PlateNumber string `db:"plate_number"`
	Make        string `db:"make"`
	Model       string `db:"model"`
	Year        int    `db:"year"`
	Status      string `db:"status"`
	model.Metadata
}
