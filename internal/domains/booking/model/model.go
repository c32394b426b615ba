package model

import (
	"database/sql"
	"time"

	"github.com/alhamw/vehicle-booking-system-sub000/shared/model"
)

const (
	TableName  = "vehicle_bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldRequesterID = "requester_id"
	FieldVehicleID   = "vehicle_id"
	FieldDriverID    = "driver_id"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
	FieldStatus      = "status"
	FieldDepartment  = "department"
	FieldNotes       = "notes"
	FieldReason      = "reason"
)

// Booking lifecycle. StatusCompleted is a declared terminal state reserved for
// trip closeout, which lives outside this service; nothing here transitions
// into it.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusCancelled  = "cancelled"
	StatusCompleted  = "completed"
)

// ActiveStatuses are the statuses that hold a claim on the vehicle for the
// booked window. Pending bookings do not block other requests.
var ActiveStatuses = []string{StatusApproved, StatusInProgress}

type Booking struct {
	ID          string         `db:"id"`
	RequesterID string         `db:"requester_id"`
	VehicleID   string         `db:"vehicle_id"`
	DriverID    sql.NullString `db:"driver_id"`
	StartTime   time.Time      `db:"start_time"`
	EndTime     time.Time      `db:"end_time"`
	Status      string         `db:"status"`
	Department  string         `db:"department"`
	Notes       string         `db:"notes"`
	Reason      string         `db:"reason"`
	model.Metadata
}

// Overlaps reports whether the booking's [start, end) window intersects the
// given one. Windows are half-open, so back-to-back bookings that share a
// boundary instant do not collide.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// FirstOverlapping scans existing bookings for the first one holding the
// vehicle during [start, end). Only approved and in-progress rows count;
// anything else has no claim on the vehicle. Returns nil when the window is
// free.
func FirstOverlapping(existing []Booking, start, end time.Time) *Booking {
	for i := range existing {
		b := &existing[i]

		if b.Status != StatusApproved && b.Status != StatusInProgress {
			continue
		}

		if b.Overlaps(start, end) {
			return b
		}
	}

	return nil
}
