package dto_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name: "equality with table",
			filter: dto.Filter{
				Field:    "vehicle_id",
				Value:    "v-1",
				Operator: dto.FilterOperatorEq,
				Table:    "vehicle_bookings",
			},
			wantWhere: "vehicle_bookings.vehicle_id = :vehicle_id",
			wantArgs:  map[string]any{"vehicle_id": "v-1"},
		},
		{
			name: "less-than for half-open window start",
			filter: dto.Filter{
				ArgName:  "window_end",
				Field:    "start_time",
				Value:    "2025-01-10T12:00:00Z",
				Operator: dto.FilterOperatorLess,
			},
			wantWhere: "start_time < :window_end",
			wantArgs:  map[string]any{"window_end": "2025-01-10T12:00:00Z"},
		},
		{
			name: "in with slice",
			filter: dto.Filter{
				Field:    "status",
				Value:    []string{"approved", "in_progress"},
				Operator: dto.FilterOperatorIn,
			},
			wantWhere: "status IN (:status_0, :status_1) ",
			wantArgs:  map[string]any{"status_0": "approved", "status_1": "in_progress"},
		},
		{
			name: "is null",
			filter: dto.Filter{
				Field:    "approver_id",
				Operator: dto.FilterIsNull,
			},
			wantWhere: "approver_id IS NULL",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "vehicle_id", Value: "v-1", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "status", Value: []string{"approved", "in_progress"}, Operator: dto.FilterOperatorIn},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(vehicle_id = :vehicle_id AND status IN (:status_0, :status_1) )", where)
	assert.Len(t, args, 3)
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	where, args := group.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestQueryParams_FromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/bookings?page=2&limit=25&sort_by=start_time&sort_dir=asc", nil)

	params := dto.QueryParams{}
	params.FromRequest(req, true)

	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, "start_time", params.SortBy)
	assert.Equal(t, dto.SortDirAsc, params.SortDir)
}

func TestQueryParams_FromRequestDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/bookings", nil)

	params := dto.QueryParams{}
	params.FromRequest(req, true)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 10, params.Limit)
}
