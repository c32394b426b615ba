package dto

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	gModel "github.com/alhamw/vehicle-booking-system-sub000/shared/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/timezone"
)

type CreateBookingRequest struct {
	// RequesterID lets an administrator book on behalf of another user.
	RequesterID  string `json:"requester_id"   validate:"omitempty,uuid4"`
	VehicleID    string `json:"vehicle_id"     validate:"required,uuid4"`
	DriverID     string `json:"driver_id"      validate:"omitempty,uuid4"`
	StartTime    string `json:"start_time"     validate:"required"`
	EndTime      string `json:"end_time"       validate:"required"`
	Department   string `json:"department"     validate:"omitempty,max=100"`
	Notes        string `json:"notes"          validate:"omitempty,max=500"`
	ApproverL1ID string `json:"approver_l1_id" validate:"omitempty,uuid4"`
	ApproverL2ID string `json:"approver_l2_id" validate:"omitempty,uuid4"`
}

func (c *CreateBookingRequest) ToModel(requester, user string) (model.Booking, error) {
	startTime, err := time.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return model.Booking{}, err
	}

	endTime, err := time.Parse(constant.DateFormat, c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	driverID := sql.NullString{}
	if c.DriverID != "" {
		driverID = sql.NullString{String: c.DriverID, Valid: true}
	}

	return model.Booking{
		ID:          uuid.NewString(),
		RequesterID: requester,
		VehicleID:   c.VehicleID,
		DriverID:    driverID,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      model.StatusPending,
		Department:  c.Department,
		Notes:       c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateBookingRequest struct {
	DriverID   string `db:"driver_id"  json:"driver_id"  validate:"omitempty,uuid4"`
	StartTime  string `json:"start_time"                 validate:"omitempty"`
	EndTime    string `json:"end_time"                   validate:"omitempty"`
	Department string `db:"department" json:"department" validate:"omitempty,max=100"`
	Notes      string `db:"notes"      json:"notes"      validate:"omitempty,max=500"`
}

// Window parses the optional start/end overrides. A zero time means the field
// was not supplied.
func (u *UpdateBookingRequest) Window() (start, end time.Time, err error) {
	if u.StartTime != "" {
		start, err = time.Parse(constant.DateFormat, u.StartTime)
		if err != nil {
			return start, end, err
		}
	}

	if u.EndTime != "" {
		end, err = time.Parse(constant.DateFormat, u.EndTime)
		if err != nil {
			return start, end, err
		}
	}

	return start, end, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type BookingResponse struct {
	ID          string `json:"id"`
	RequesterID string `json:"requester_id"`
	VehicleID   string `json:"vehicle_id"`
	DriverID    string `json:"driver_id,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	Department  string `json:"department"`
	Notes       string `json:"notes"`
	Reason      string `json:"reason,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RequesterID = model.RequesterID
	r.VehicleID = model.VehicleID
	if model.DriverID.Valid {
		r.DriverID = model.DriverID.String
	}
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Status = model.Status
	r.Department = model.Department
	r.Notes = model.Notes
	r.Reason = model.Reason
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
