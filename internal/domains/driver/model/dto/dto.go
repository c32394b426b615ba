package dto

import (
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/driver/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared"
)

type DriverResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Status        string `json:"status"`
}

func (r *DriverResponse) FromModel(model model.Driver) {
	r.ID = model.ID
	r.Name = model.Name
	r.LicenseNumber = model.LicenseNumber
	r.Status = model.Status
}

type GetDriversResponse struct {
	Drivers   []DriverResponse `json:"drivers"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetDriversResponse) FromModels(models []model.Driver, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Drivers = make([]DriverResponse, len(models))
	for i, mod := range models {
		r.Drivers[i].FromModel(mod)
	}
}
