package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alhamw/vehicle-booking-system-sub000/shared"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "zero total", total: 0, limit: 10, want: 1},
		{name: "exact pages", total: 20, limit: 10, want: 2},
		{name: "partial last page", total: 21, limit: 10, want: 3},
		{name: "zero limit", total: 5, limit: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRequest struct {
		Notes      string `db:"notes"`
		Department string `db:"department"`
		DriverID   string `db:"driver_id"`
		Ignored    string
	}

	req := updateRequest{
		Notes:   "weekly site visit",
		Ignored: "no db tag",
	}

	fields := shared.TransformFields(req, "admin-1")

	assert.Equal(t, "weekly site visit", fields["notes"])
	assert.NotContains(t, fields, "department")
	assert.NotContains(t, fields, "driver_id")
	assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("b-1", "id", "vehicle_bookings")

	where, args := filter.GetWhereClause()

	assert.Equal(t, "(vehicle_bookings.id = :id)", where)
	assert.Equal(t, "b-1", args["id"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get:b-1", shared.BuildCacheKey("booking:get", "b-1"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}
	filter := shared.FilterByID("v-1", "vehicle_id", "vehicle_bookings")

	first := shared.BuildCacheKeyWithQuery("booking:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("booking:gets", params, filter)

	assert.Equal(t, first, second)

	other := shared.BuildCacheKeyWithQuery("booking:gets", gDto.QueryParams{Page: 2, Limit: 10}, filter)
	assert.NotEqual(t, first, other)
}

func TestConvertStringToBool(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("not-a-bool"))

	val := shared.ConvertStringToBool("true")
	if assert.NotNil(t, val) {
		assert.True(t, *val)
	}
}
