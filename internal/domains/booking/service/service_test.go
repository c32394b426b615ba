package service_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	otelMocks "github.com/alhamw/vehicle-booking-system-sub000/infras/otel/mocks"
	pgMocks "github.com/alhamw/vehicle-booking-system-sub000/infras/postgres/mocks"
	approvalMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/mocks"
	approvalModel "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model"
	auditMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/service/mocks"
	bookingMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/mocks"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/service"
	vehicleDto "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/model/dto"
	vehicleMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/service/mocks"
	cacheMocks "github.com/alhamw/vehicle-booking-system-sub000/shared/cache/mocks"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/failure"
	gModel "github.com/alhamw/vehicle-booking-system-sub000/shared/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/timezone"
)

type bookingFixture struct {
	repo     *bookingMocks.MockBooking
	approval *approvalMocks.MockApproval
	vehicle  *vehicleMocks.MockVehicle
	audit    *auditMocks.MockAudit
	txRunner *pgMocks.MockTxRunner
	cache    *cacheMocks.MockRedisCache
	svc      service.Booking
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &bookingFixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		approval: approvalMocks.NewMockApproval(ctrl),
		vehicle:  vehicleMocks.NewMockVehicle(ctrl),
		audit:    auditMocks.NewMockAudit(ctrl),
		txRunner: pgMocks.NewMockTxRunner(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Booking.SystemActor = "system"

	f.svc = service.New(f.repo, f.approval, f.vehicle, f.audit, f.txRunner, cfg, f.cache, otelMocks.NewOtel())

	return f
}

func (f *bookingFixture) passthroughTx() {
	f.txRunner.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		})
}

func actorContext(userID string, role constant.Role) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func validCreateRequest() dto.CreateBookingRequest {
	start := timezone.Now().Add(24 * time.Hour)

	return dto.CreateBookingRequest{
		VehicleID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		StartTime: start.Format(constant.DateFormat),
		EndTime:   start.Add(4 * time.Hour).Format(constant.DateFormat),
		Notes:     "site visit",
	}
}

func TestBookingService_Create(t *testing.T) {
	ctx := actorContext("employee-1", constant.RoleEmployee)

	t.Run("successful create inserts booking and both approvals", func(t *testing.T) {
		f := newBookingFixture(t)

		f.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleDto.VehicleResponse{ID: "vehicle-1"}, nil)
		f.passthroughTx()
		f.repo.EXPECT().LockVehicleTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
				assert.Equal(t, model.StatusPending, booking.Status)
				assert.Equal(t, "employee-1", booking.RequesterID)

				return nil
			})
		f.approval.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, approvals []approvalModel.Approval) error {
				assert.Len(t, approvals, 2)
				assert.Equal(t, approvalModel.LevelOne, approvals[0].Level)
				assert.Equal(t, approvalModel.LevelTwo, approvals[1].Level)
				assert.Equal(t, approvalModel.StatusPending, approvals[0].Status)
				assert.False(t, approvals[0].ApproverID.Valid)

				return nil
			})
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any())

		res, err := f.svc.Create(ctx, validCreateRequest())

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
	})

	t.Run("overlapping active booking is rejected with conflict", func(t *testing.T) {
		f := newBookingFixture(t)

		req := validCreateRequest()
		start, _ := time.Parse(constant.DateFormat, req.StartTime)

		f.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleDto.VehicleResponse{ID: "vehicle-1"}, nil)
		f.passthroughTx()
		f.repo.EXPECT().LockVehicleTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{
			{
				ID:        "existing-1",
				Status:    model.StatusApproved,
				StartTime: start.Add(-time.Hour),
				EndTime:   start.Add(time.Hour),
			},
		}, nil)

		_, err := f.svc.Create(ctx, req)

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusConflict))
		assert.Contains(t, err.Error(), "existing-1")
	})

	t.Run("booking ending when another starts is allowed", func(t *testing.T) {
		f := newBookingFixture(t)

		req := validCreateRequest()
		end, _ := time.Parse(constant.DateFormat, req.EndTime)

		f.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleDto.VehicleResponse{ID: "vehicle-1"}, nil)
		f.passthroughTx()
		f.repo.EXPECT().LockVehicleTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{
			{
				ID:        "existing-1",
				Status:    model.StatusApproved,
				StartTime: end,
				EndTime:   end.Add(2 * time.Hour),
			},
		}, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.approval.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := f.svc.Create(ctx, req)

		assert.NoError(t, err)
	})

	t.Run("window ending before it starts is rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		req := validCreateRequest()
		req.StartTime, req.EndTime = req.EndTime, req.StartTime

		_, err := f.svc.Create(ctx, req)

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("window in the past is rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		req := validCreateRequest()
		start := timezone.Now().Add(-24 * time.Hour)
		req.StartTime = start.Format(constant.DateFormat)
		req.EndTime = start.Add(time.Hour).Format(constant.DateFormat)

		_, err := f.svc.Create(ctx, req)

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("employee cannot book on behalf of others", func(t *testing.T) {
		f := newBookingFixture(t)

		req := validCreateRequest()
		req.RequesterID = "6ba7b810-9dad-11d1-80b4-00c04fd430c9"

		_, err := f.svc.Create(ctx, req)

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("admin can book on behalf of an employee", func(t *testing.T) {
		f := newBookingFixture(t)

		req := validCreateRequest()
		req.RequesterID = "6ba7b810-9dad-11d1-80b4-00c04fd430c9"

		f.vehicle.EXPECT().Get(gomock.Any(), gomock.Any()).Return(vehicleDto.VehicleResponse{ID: "vehicle-1"}, nil)
		f.passthroughTx()
		f.repo.EXPECT().LockVehicleTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
				assert.Equal(t, req.RequesterID, booking.RequesterID)
				assert.Equal(t, "admin-1", booking.CreatedBy)

				return nil
			})
		f.approval.EXPECT().InsertBulkTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := f.svc.Create(actorContext("admin-1", constant.RoleAdmin), req)

		assert.NoError(t, err)
	})
}

func TestBookingService_Update(t *testing.T) {
	stored := model.Booking{
		ID:          "booking-1",
		RequesterID: "employee-1",
		VehicleID:   "vehicle-1",
		StartTime:   timezone.Now().Add(24 * time.Hour),
		EndTime:     timezone.Now().Add(28 * time.Hour),
		Status:      model.StatusPending,
		Notes:       "old notes",
		Metadata:    gModel.Metadata{CreatedBy: "employee-1"},
	}

	t.Run("requester edits own pending booking", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, "new notes", fields[model.FieldNotes])

				return nil
			})
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any())

		err := f.svc.Update(actorContext("employee-1", constant.RoleEmployee), dto.UpdateBookingRequest{Notes: "new notes"}, "booking-1")

		assert.NoError(t, err)
	})

	t.Run("no changed fields writes nothing", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		err := f.svc.Update(actorContext("employee-1", constant.RoleEmployee), dto.UpdateBookingRequest{Notes: "old notes"}, "booking-1")

		assert.NoError(t, err)
	})

	t.Run("other employee is rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		err := f.svc.Update(actorContext("employee-2", constant.RoleEmployee), dto.UpdateBookingRequest{Notes: "hijack"}, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("requester cannot edit after approval started", func(t *testing.T) {
		f := newBookingFixture(t)

		inProgress := stored
		inProgress.Status = model.StatusInProgress

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inProgress, nil)

		err := f.svc.Update(actorContext("employee-1", constant.RoleEmployee), dto.UpdateBookingRequest{Notes: "late edit"}, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusUnprocessableEntity))
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := f.svc.Update(actorContext("employee-1", constant.RoleEmployee), dto.UpdateBookingRequest{Notes: "x"}, "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})

	t.Run("window edit onto another active booking is rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		approved := stored
		approved.Status = model.StatusApproved

		newStart := approved.StartTime.Add(48 * time.Hour)
		newEnd := newStart.Add(4 * time.Hour)

		other := model.Booking{
			ID:        "existing-9",
			VehicleID: "vehicle-1",
			StartTime: newStart.Add(-time.Hour),
			EndTime:   newStart.Add(2 * time.Hour),
			Status:    model.StatusApproved,
		}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
		f.passthroughTx()
		f.repo.EXPECT().LockVehicleTx(gomock.Any(), gomock.Any(), "vehicle-1").Return(nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{other}, nil)

		err := f.svc.Update(actorContext("admin-1", constant.RoleAdmin), dto.UpdateBookingRequest{
			StartTime: newStart.Format(constant.DateFormat),
			EndTime:   newEnd.Format(constant.DateFormat),
		}, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusConflict))
		assert.Contains(t, err.Error(), "existing-9")
	})

	t.Run("rescheduled booking ignores its own row in the overlap check", func(t *testing.T) {
		f := newBookingFixture(t)

		approved := stored
		approved.Status = model.StatusApproved

		newStart := approved.StartTime.Add(48 * time.Hour)
		newEnd := newStart.Add(4 * time.Hour)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approved, nil)
		f.passthroughTx()
		f.repo.EXPECT().LockVehicleTx(gomock.Any(), gomock.Any(), "vehicle-1").Return(nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{approved}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Contains(t, fields, model.FieldStartTime)
				assert.Contains(t, fields, model.FieldEndTime)

				return nil
			})
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any())

		err := f.svc.Update(actorContext("admin-1", constant.RoleAdmin), dto.UpdateBookingRequest{
			StartTime: newStart.Format(constant.DateFormat),
			EndTime:   newEnd.Format(constant.DateFormat),
		}, "booking-1")

		assert.NoError(t, err)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	approved := model.Booking{
		ID:          "booking-1",
		RequesterID: "employee-1",
		VehicleID:   "vehicle-1",
		Status:      model.StatusApproved,
	}

	t.Run("admin cancels approved booking and cascades pending approvals", func(t *testing.T) {
		f := newBookingFixture(t)

		f.passthroughTx()
		f.repo.EXPECT().LockBookingTx(gomock.Any(), gomock.Any(), "booking-1").Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approved, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
				assert.Equal(t, "trip no longer needed", fields[model.FieldReason])

				return nil
			})
		f.approval.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]approvalModel.Approval{
			{ID: "approval-2", BookingID: "booking-1", Level: approvalModel.LevelTwo, Status: approvalModel.StatusPending},
		}, nil)
		f.approval.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(2)
		f.vehicle.EXPECT().Release(gomock.Any(), "vehicle-1")

		err := f.svc.Cancel(actorContext("admin-1", constant.RoleAdmin), dto.CancelBookingRequest{Reason: "trip no longer needed"}, "booking-1")

		assert.NoError(t, err)
	})

	t.Run("non-admin cannot cancel", func(t *testing.T) {
		f := newBookingFixture(t)

		err := f.svc.Cancel(actorContext("employee-1", constant.RoleEmployee), dto.CancelBookingRequest{Reason: "changed my mind"}, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("rejected booking cannot be cancelled", func(t *testing.T) {
		f := newBookingFixture(t)

		rejected := approved
		rejected.Status = model.StatusRejected

		f.passthroughTx()
		f.repo.EXPECT().LockBookingTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(rejected, nil)

		err := f.svc.Cancel(actorContext("admin-1", constant.RoleAdmin), dto.CancelBookingRequest{Reason: "too late"}, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusUnprocessableEntity))
	})
}

func TestBookingService_Get(t *testing.T) {
	stored := model.Booking{
		ID:          "booking-1",
		RequesterID: "employee-1",
		VehicleID:   "vehicle-1",
		DriverID:    sql.NullString{String: "driver-1", Valid: true},
		Status:      model.StatusPending,
	}

	t.Run("requester sees own booking", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		res, err := f.svc.Get(actorContext("employee-1", constant.RoleEmployee), "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "driver-1", res.DriverID)
	})

	t.Run("employee cannot see another requester's booking", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		_, err := f.svc.Get(actorContext("employee-2", constant.RoleEmployee), "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("approver sees any booking", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		_, err := f.svc.Get(actorContext("approver-1", constant.RoleApproverL1), "booking-1")

		assert.NoError(t, err)
	})
}

func TestBookingService_GetAll(t *testing.T) {
	ctx := actorContext("admin-1", constant.RoleAdmin)

	t.Run("approver filter resolves to booking id set", func(t *testing.T) {
		f := newBookingFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		f.approval.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), approvalModel.FieldBookingID).
			Return([]approvalModel.Approval{{BookingID: "booking-1"}}, nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
				idFilter, ok := filter.Filters[0].(gDto.Filter)
				assert.True(t, ok)
				assert.Equal(t, model.FieldID, idFilter.Field)
				assert.Equal(t, gDto.FilterOperatorIn, idFilter.Operator)
				assert.Equal(t, []string{"booking-1"}, idFilter.Value)

				return []model.Booking{{ID: "booking-1"}}, nil
			})

		res, err := f.svc.GetAll(ctx, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{gDto.Filter{
				Field:    approvalModel.FieldApproverID,
				Operator: gDto.FilterOperatorEq,
				Value:    "approver-1",
				Table:    approvalModel.TableName,
			}},
		})

		assert.NoError(t, err)
		assert.Len(t, res.Bookings, 1)
		assert.Equal(t, 1, res.TotalData)
	})

	t.Run("approver with no approvals yields empty list", func(t *testing.T) {
		f := newBookingFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		f.approval.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), approvalModel.FieldBookingID).
			Return(nil, nil)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		res, err := f.svc.GetAll(ctx, gDto.QueryParams{Limit: 10}, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{gDto.Filter{
				Field:    approvalModel.FieldApproverID,
				Operator: gDto.FilterOperatorEq,
				Value:    "approver-1",
				Table:    approvalModel.TableName,
			}},
		})

		assert.NoError(t, err)
		assert.Empty(t, res.Bookings)
	})
}
