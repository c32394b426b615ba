package dto

import (
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/timezone"
)

// Entry describes one state change to be recorded. OldValues and NewValues
// hold only the fields that changed; either may be nil.
type Entry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	OldValues  map[string]any
	NewValues  map[string]any
	Desc       string
}

type AuditLogResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	OldValues  map[string]any `json:"old_values,omitempty"`
	NewValues  map[string]any `json:"new_values,omitempty"`
	Desc       string         `json:"description"`
	ClientIP   string         `json:"client_ip,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

func (r *AuditLogResponse) FromModel(mod model.AuditLog) {
	r.ID = mod.ID
	if mod.ActorID.Valid {
		r.ActorID = mod.ActorID.String
	}
	r.Action = mod.Action
	r.EntityType = mod.EntityType
	r.EntityID = mod.EntityID
	if len(mod.OldValues) > 0 {
		_ = mod.OldValues.Unmarshal(&r.OldValues)
	}
	if len(mod.NewValues) > 0 {
		_ = mod.NewValues.Unmarshal(&r.NewValues)
	}
	r.Desc = mod.Desc
	r.ClientIP = mod.ClientIP
	r.CreatedAt = timezone.Format(mod.CreatedAt, constant.DateFormat)
}

type GetAuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"audit_logs"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetAuditLogsResponse) FromModels(models []model.AuditLog, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.AuditLogs = make([]AuditLogResponse, len(models))
	for i, mod := range models {
		r.AuditLogs[i].FromModel(mod)
	}
}
