package model

import (
	"github.com/alhamw/vehicle-booking-system-sub000/shared/model"
)

const (
	TableName  = "drivers"
	EntityName = "driver"

	FieldID            = "id"
	FieldName          = "name"
	FieldLicenseNumber = "license_number"
	FieldStatus        = "status"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Driver struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	LicenseNumber string `db:"license_number"`
	Status        string `db:"status"`
	model.Metadata
}
