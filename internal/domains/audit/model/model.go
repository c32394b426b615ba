package model

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "audit_logs"
	EntityName = "audit"

	FieldID         = "id"
	FieldActorID    = "actor_id"
	FieldAction     = "action"
	FieldEntityType = "entity_type"
	FieldEntityID   = "entity_id"
	FieldOldValues  = "old_values"
	FieldNewValues  = "new_values"
	FieldDesc       = "description"
	FieldClientIP   = "client_ip"
	FieldCreatedAt  = "created_at"
)

// Actions recorded against bookings and approvals.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionApproved  = "approved"
	ActionRejected  = "rejected"
	ActionCancelled = "cancelled"
)

// AuditLog is an append-only record of a single state change. ActorID is null
// for system-originated writes such as cascade cancellations. Old and new
// values carry only the fields that actually changed.
type AuditLog struct {
	ID         string         `db:"id"`
	ActorID    sql.NullString `db:"actor_id"`
	Action     string         `db:"action"`
	EntityType string         `db:"entity_type"`
	EntityID   string         `db:"entity_id"`
	OldValues  types.JSONText `db:"old_values"`
	NewValues  types.JSONText `db:"new_values"`
	Desc       string         `db:"description"`
	ClientIP   string         `db:"client_ip"`
	CreatedAt  time.Time      `db:"created_at"`
}
