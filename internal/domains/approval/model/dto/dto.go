package dto

import (
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/timezone"
)

type RecordDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Comments string `json:"comments" validate:"omitempty,max=500"`
}

type ApprovalResponse struct {
	ID         string `json:"id"`
	BookingID  string `json:"booking_id"`
	Level      int    `json:"level"`
	ApproverID string `json:"approver_id,omitempty"`
	Status     string `json:"status"`
	Comments   string `json:"comments"`
	DecidedAt  string `json:"decided_at,omitempty"`
	gDto.Metadata
}

func (r *ApprovalResponse) FromModel(model model.Approval) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Level = model.Level
	if model.ApproverID.Valid {
		r.ApproverID = model.ApproverID.String
	}
	r.Status = model.Status
	r.Comments = model.Comments
	if model.DecidedAt.Valid {
		r.DecidedAt = timezone.Format(model.DecidedAt.Time, constant.DateFormat)
	}
	r.Metadata.FromModel(model.Metadata)
}

type GetApprovalsResponse struct {
	Approvals []ApprovalResponse `json:"approvals"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetApprovalsResponse) FromModels(models []model.Approval, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Approvals = make([]ApprovalResponse, len(models))
	for i, mod := range models {
		r.Approvals[i].FromModel(mod)
	}
}
