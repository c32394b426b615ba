package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model"
)

func TestFirstOverlapping(t *testing.T) {
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	makeBooking := func(id, status string, startOffset, endOffset time.Duration) model.Booking {
		return model.Booking{
			ID:        id,
			Status:    status,
			StartTime: base.Add(startOffset),
			EndTime:   base.Add(endOffset),
		}
	}

	tests := []struct {
		name     string
		existing []model.Booking
		start    time.Time
		end      time.Time
		wantID   string
	}{
		{
			name:     "empty list",
			existing: nil,
			start:    base,
			end:      base.Add(2 * time.Hour),
			wantID:   "",
		},
		{
			name: "overlap with approved booking",
			existing: []model.Booking{
				makeBooking("b1", model.StatusApproved, 0, 2*time.Hour),
			},
			start:  base.Add(time.Hour),
			end:    base.Add(3 * time.Hour),
			wantID: "b1",
		},
		{
			name: "overlap with in progress booking",
			existing: []model.Booking{
				makeBooking("b1", model.StatusInProgress, 0, 2*time.Hour),
			},
			start:  base.Add(-time.Hour),
			end:    base.Add(time.Hour),
			wantID: "b1",
		},
		{
			name: "window fully inside existing booking",
			existing: []model.Booking{
				makeBooking("b1", model.StatusApproved, 0, 4*time.Hour),
			},
			start:  base.Add(time.Hour),
			end:    base.Add(2 * time.Hour),
			wantID: "b1",
		},
		{
			name: "window fully covering existing booking",
			existing: []model.Booking{
				makeBooking("b1", model.StatusApproved, time.Hour, 2*time.Hour),
			},
			start:  base,
			end:    base.Add(4 * time.Hour),
			wantID: "b1",
		},
		{
			name: "back to back bookings do not collide",
			existing: []model.Booking{
				makeBooking("b1", model.StatusApproved, 0, 2*time.Hour),
			},
			start:  base.Add(2 * time.Hour),
			end:    base.Add(4 * time.Hour),
			wantID: "",
		},
		{
			name: "pending and terminal bookings never block",
			existing: []model.Booking{
				makeBooking("b1", model.StatusPending, 0, 2*time.Hour),
				makeBooking("b2", model.StatusRejected, 0, 2*time.Hour),
				makeBooking("b3", model.StatusCancelled, 0, 2*time.Hour),
				makeBooking("b4", model.StatusCompleted, 0, 2*time.Hour),
			},
			start:  base,
			end:    base.Add(2 * time.Hour),
			wantID: "",
		},
		{
			name: "first blocking booking wins",
			existing: []model.Booking{
				makeBooking("b1", model.StatusPending, 0, 2*time.Hour),
				makeBooking("b2", model.StatusApproved, 0, 2*time.Hour),
				makeBooking("b3", model.StatusInProgress, time.Hour, 3*time.Hour),
			},
			start:  base,
			end:    base.Add(2 * time.Hour),
			wantID: "b2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.FirstOverlapping(tt.existing, tt.start, tt.end)

			if tt.wantID == "" {
				assert.Nil(t, got)

				return
			}

			assert.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}
