package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	otelMocks "github.com/alhamw/vehicle-booking-system-sub000/infras/otel/mocks"
	pgMocks "github.com/alhamw/vehicle-booking-system-sub000/infras/postgres/mocks"
	approvalMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/mocks"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/service"
	auditMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/service/mocks"
	bookingMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/mocks"
	bookingModel "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model"
	vehicleMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/service/mocks"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/failure"
)

type approvalFixture struct {
	repo     *approvalMocks.MockApproval
	booking  *bookingMocks.MockBooking
	vehicle  *vehicleMocks.MockVehicle
	audit    *auditMocks.MockAudit
	txRunner *pgMocks.MockTxRunner
	svc      service.Approval
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &approvalFixture{
		repo:     approvalMocks.NewMockApproval(ctrl),
		booking:  bookingMocks.NewMockBooking(ctrl),
		vehicle:  vehicleMocks.NewMockVehicle(ctrl),
		audit:    auditMocks.NewMockAudit(ctrl),
		txRunner: pgMocks.NewMockTxRunner(ctrl),
	}

	cfg := &config.Config{}
	cfg.Booking.SystemActor = "system"

	f.svc = service.New(f.repo, f.booking, f.vehicle, f.audit, f.txRunner, cfg, otelMocks.NewOtel())

	return f
}

func (f *approvalFixture) passthroughTx() {
	f.txRunner.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
			return fn(nil)
		})
}

func approverContext(userID string, role constant.Role) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func pendingApproval(id string, level int) model.Approval {
	return model.Approval{
		ID:        id,
		BookingID: "booking-1",
		Level:     level,
		Status:    model.StatusPending,
	}
}

func pendingBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:          "booking-1",
		RequesterID: "employee-1",
		VehicleID:   "vehicle-1",
		Status:      bookingModel.StatusPending,
	}
}

func TestApprovalService_RecordDecision(t *testing.T) {
	approve := dto.RecordDecisionRequest{Decision: model.DecisionApprove, Comments: "looks good"}
	reject := dto.RecordDecisionRequest{Decision: model.DecisionReject, Comments: "vehicle needed elsewhere"}

	t.Run("level one approval moves booking to in_progress and marks vehicle in use", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-1", model.LevelOne)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)
		f.passthroughTx()
		f.booking.EXPECT().LockBookingTx(gomock.Any(), gomock.Any(), "booking-1").Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approval, nil)
		f.booking.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusApproved, fields[model.FieldStatus])
				assert.Equal(t, "approver-1", fields[model.FieldApproverID])
				assert.NotNil(t, fields[model.FieldDecidedAt])

				return nil
			})
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Approval{
			{ID: "approval-1", Level: model.LevelOne, Status: model.StatusApproved},
			{ID: "approval-2", Level: model.LevelTwo, Status: model.StatusPending},
		}, nil)
		f.booking.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, bookingModel.StatusInProgress, fields[bookingModel.FieldStatus])

				return nil
			})
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(2)
		f.vehicle.EXPECT().MarkInUse(gomock.Any(), "vehicle-1")

		err := f.svc.RecordDecision(approverContext("approver-1", constant.RoleApproverL1), approve, "approval-1")

		assert.NoError(t, err)
	})

	t.Run("level two approval after level one completes the booking", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-2", model.LevelTwo)
		booking := pendingBooking()
		booking.Status = bookingModel.StatusInProgress

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)
		f.passthroughTx()
		f.booking.EXPECT().LockBookingTx(gomock.Any(), gomock.Any(), "booking-1").Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approval, nil)
		f.booking.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Approval{
			{ID: "approval-1", Level: model.LevelOne, Status: model.StatusApproved},
			{ID: "approval-2", Level: model.LevelTwo, Status: model.StatusApproved},
		}, nil)
		f.booking.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, bookingModel.StatusApproved, fields[bookingModel.FieldStatus])

				return nil
			})
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(2)

		err := f.svc.RecordDecision(approverContext("approver-2", constant.RoleApproverL2), approve, "approval-2")

		assert.NoError(t, err)
	})

	t.Run("level two approving first leaves the booking pending", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-2", model.LevelTwo)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)
		f.passthroughTx()
		f.booking.EXPECT().LockBookingTx(gomock.Any(), gomock.Any(), "booking-1").Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approval, nil)
		f.booking.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Approval{
			{ID: "approval-1", Level: model.LevelOne, Status: model.StatusPending},
			{ID: "approval-2", Level: model.LevelTwo, Status: model.StatusApproved},
		}, nil)
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(1)

		err := f.svc.RecordDecision(approverContext("approver-2", constant.RoleApproverL2), approve, "approval-2")

		assert.NoError(t, err)
	})

	t.Run("rejection cancels the pending sibling and releases the vehicle", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-1", model.LevelOne)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)
		f.passthroughTx()
		f.booking.EXPECT().LockBookingTx(gomock.Any(), gomock.Any(), "booking-1").Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(approval, nil)
		f.booking.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pendingBooking(), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])
				assert.Nil(t, fields[model.FieldDecidedAt])

				return nil
			})
		f.booking.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, bookingModel.StatusRejected, fields[bookingModel.FieldStatus])
				assert.Equal(t, reject.Comments, fields[bookingModel.FieldReason])

				return nil
			})
		f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Approval{
			{ID: "approval-1", Level: model.LevelOne, Status: model.StatusRejected},
			{ID: "approval-2", Level: model.LevelTwo, Status: model.StatusPending},
		}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
				assert.Equal(t, "cancelled after level 1 rejection", fields[model.FieldComments])

				return nil
			})
		f.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(3)
		f.vehicle.EXPECT().Release(gomock.Any(), "vehicle-1")

		err := f.svc.RecordDecision(approverContext("approver-1", constant.RoleApproverL1), reject, "approval-1")

		assert.NoError(t, err)
	})

	t.Run("rejecting without comments is a bad request", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-1", model.LevelOne)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)

		err := f.svc.RecordDecision(approverContext("approver-1", constant.RoleApproverL1), dto.RecordDecisionRequest{Decision: model.DecisionReject}, "approval-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})

	t.Run("role level must match the approval level", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-2", model.LevelTwo)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)

		err := f.svc.RecordDecision(approverContext("approver-1", constant.RoleApproverL1), approve, "approval-2")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("pre-assigned approval cannot be decided by someone else", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-1", model.LevelOne)
		approval.ApproverID = sql.NullString{String: "approver-9", Valid: true}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)

		err := f.svc.RecordDecision(approverContext("approver-1", constant.RoleApproverL1), approve, "approval-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusForbidden))
	})

	t.Run("already decided approval cannot be decided again", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-1", model.LevelOne)
		approval.Status = model.StatusApproved

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)

		err := f.svc.RecordDecision(approverContext("approver-1", constant.RoleApproverL1), approve, "approval-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusConflict))
	})

	t.Run("concurrent decision detected under the lock", func(t *testing.T) {
		f := newApprovalFixture(t)
		approval := pendingApproval("approval-1", model.LevelOne)
		decided := approval
		decided.Status = model.StatusRejected

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approval, nil)
		f.passthroughTx()
		f.booking.EXPECT().LockBookingTx(gomock.Any(), gomock.Any(), "booking-1").Return(nil)
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(decided, nil)

		err := f.svc.RecordDecision(approverContext("approver-1", constant.RoleApproverL1), approve, "approval-1")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusConflict))
	})

	t.Run("missing approval", func(t *testing.T) {
		f := newApprovalFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Approval{}, nil)

		err := f.svc.RecordDecision(approverContext("approver-1", constant.RoleApproverL1), approve, "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}

func TestApprovalService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newApprovalFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingApproval("approval-1", model.LevelOne), nil)

		res, err := f.svc.Get(context.Background(), "approval-1")

		assert.NoError(t, err)
		assert.Equal(t, "approval-1", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		f := newApprovalFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Approval{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsCode(err, http.StatusNotFound))
	})
}
