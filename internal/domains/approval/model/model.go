package model

import (
	"database/sql"

	"github.com/alhamw/vehicle-booking-system-sub000/shared/model"
)

const (
	TableName  = "booking_approvals"
	EntityName = "approval"

	FieldID         = "id"
	FieldBookingID  = "booking_id"
	FieldLevel      = "level"
	FieldApproverID = "approver_id"
	FieldStatus     = "status"
	FieldComments   = "comments"
	FieldDecidedAt  = "decided_at"
)

const (
	LevelOne = 1
	LevelTwo = 2
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Approval is one level of the two-step sign-off attached to a booking.
// ApproverID stays null until someone decides, unless the requester
// pre-assigned a specific approver at booking time. DecidedAt is only set on
// approve.
type Approval struct {
	ID         string         `db:"id"`
	BookingID  string         `db:"booking_id"`
	Level      int            `db:"level"`
	ApproverID sql.NullString `db:"approver_id"`
	Status     string         `db:"status"`
	Comments   string         `db:"comments"`
	DecidedAt  sql.NullTime   `db:"decided_at"`
	model.Metadata
}
