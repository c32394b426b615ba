package model

import (
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID         = "id"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldFullName   = "full_name"
	FieldRole       = "role"
	FieldDepartment = "department"
	FieldActive     = "active"
)

type User struct {
	ID         string        `db:"id"`
	Email      string        `db:"email"`
	Password   string        `db:"password"`
	FullName   string        `db:"full_name"`
	Role       constant.Role `db:"role"`
	Department string        `db:"department"`
	Active     bool          `db:"active"`
	model.Metadata
}
