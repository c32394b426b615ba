package dto

import (
	"github.com/google/uuid"

	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	gModel "github.com/alhamw/vehicle-booking-system-sub000/shared/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/timezone"
)

type CreateVehicleRequest struct {
	PlateNumber string `json:"plate_number" validate:"required,max=20"`
	Make        string `json:"make"         validate:"required,max=50"`
	Model       string `json:"model"        validate:"required,max=50"`
	Year        int    `json:"year"         validate:"required,gte=1980"`
	Status      string `json:"status"       validate:"omitempty,oneof=available in_use maintenance out_of_service"`
}

func (c *CreateVehicleRequest) ToModel(user string) model.Vehicle {
	status := model.StatusAvailable
	if c.Status != "" {
		status = c.Status
	}

	return model.Vehicle{
		ID:          uuid.NewString(),
		PlateNumber: c.PlateNumber,
		Make:        c.Make,
		Model:       c.Model,
		Year:        c.Year,
		Status:      status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateVehicleRequest struct {
	PlateNumber string `db:"plate_number" json:"plate_number" validate:"omitempty,max=20"`
	Make        string `db:"make"         json:"make"         validate:"omitempty,max=50"`
	Model       string `db:"model"        json:"model"        validate:"omitempty,max=50"`
	Year        int    `db:"year"         json:"year"         validate:"omitempty,gte=1980"`
	Status      string `db:"status"       json:"status"       validate:"omitempty,oneof=available in_use maintenance out_of_service"`
}

type VehicleResponse struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Status      string `json:"status"`
	gDto.Metadata
}

func (r *VehicleResponse) FromModel(model model.Vehicle) {
	r.ID = model.ID
	r.PlateNumber = model.PlateNumber
	r.Make = model.Make
	r.Model = model.Model
	r.Year = model.Year
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVehiclesResponse) FromModels(models []model.Vehicle, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Vehicles = make([]VehicleResponse, len(models))
	for i, mod := range models {
		r.Vehicles[i].FromModel(mod)
	}
}
