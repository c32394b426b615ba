package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/otel"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/postgres"
	approvalModel "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model"
	approvalRepo "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/repository"
	auditModel "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model"
	auditDto "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model/dto"
	auditSvc "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/service"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/repository"
	vehicleSvc "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/service"
	"github.com/alhamw/vehicle-booking-system-sub000/shared"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/cache"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/failure"
	gModel "github.com/alhamw/vehicle-booking-system-sub000/shared/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Cancel(ctx context.Context, req dto.CancelBookingRequest, id string) error
}

type serviceImpl struct {
	repo         repository.Booking
	approvalRepo approvalRepo.Approval
	vehicle      vehicleSvc.Vehicle
	audit        auditSvc.Audit
	txRunner     postgres.TxRunner
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	approvalRepo approvalRepo.Approval,
	vehicle vehicleSvc.Vehicle,
	audit auditSvc.Audit,
	txRunner postgres.TxRunner,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		approvalRepo: approvalRepo,
		vehicle:      vehicle,
		audit:        audit,
		txRunner:     txRunner,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(constant.Role)

	requester := user
	if req.RequesterID != constant.Empty {
		if role != constant.RoleAdmin {
			return res, failure.Forbidden("only administrators can create bookings on behalf of others")
		}

		requester = req.RequesterID
	}

	booking, err := req.ToModel(requester, user)
	if err != nil {
		return res, failure.BadRequestFromString("start_time and end_time must be RFC3339 timestamps")
	}

	if !booking.StartTime.Before(booking.EndTime) {
		return res, failure.BadRequestFromString("end_time must be after start_time")
	}

	if booking.StartTime.Before(timezone.Now()) {
		return res, failure.BadRequestFromString("start_time must not be in the past")
	}

	if _, err = s.vehicle.Get(ctx, booking.VehicleID); err != nil {
		return res, err
	}

	approvals := buildApprovals(booking, req.ApproverL1ID, req.ApproverL2ID, user)

	err = s.txRunner.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.LockVehicleTx(ctx, tx, booking.VehicleID); err != nil {
			return err
		}

		existing, err := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, activeBookingsFilter(booking.VehicleID))
		if err != nil {
			return err
		}

		if conflict := model.FirstOverlapping(existing, booking.StartTime, booking.EndTime); conflict != nil {
			return overlapConflict(conflict)
		}

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return err
		}

		return s.approvalRepo.InsertBulkTx(ctx, tx, approvals)
	})
	if err != nil {
		return res, err
	}

	s.audit.Record(ctx, auditDto.Entry{
		ActorID:    user,
		Action:     auditModel.ActionCreated,
		EntityType: model.EntityName,
		EntityID:   booking.ID,
		NewValues: map[string]any{
			model.FieldRequesterID: booking.RequesterID,
			model.FieldVehicleID:   booking.VehicleID,
			model.FieldStartTime:   booking.StartTime,
			model.FieldEndTime:     booking.EndTime,
			model.FieldStatus:      booking.Status,
		},
		Desc: "booking created",
	})

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err = s.resolveApprovalFilters(ctx, filter)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err = s.resolveApprovalFilters(ctx, filter)
	if err != nil {
		return res, err
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// resolveApprovalFilters rewrites filters targeting the approvals table into
// an id set filter, since booking list queries never join booking_approvals.
func (s *serviceImpl) resolveApprovalFilters(ctx context.Context, filter gDto.FilterGroup) (gDto.FilterGroup, error) {
	resolved := gDto.FilterGroup{Operator: filter.Operator}

	for _, raw := range filter.Filters {
		f, ok := raw.(gDto.Filter)
		if !ok || f.Table != approvalModel.TableName {
			resolved.Filters = append(resolved.Filters, raw)

			continue
		}

		approvals, err := s.approvalRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters:  []any{f},
		}, approvalModel.FieldBookingID)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve approval filter")

			return resolved, fmt.Errorf("failed to resolve approval filter: %w", err)
		}

		ids := make([]string, 0, len(approvals))
		for _, approval := range approvals {
			ids = append(ids, approval.BookingID)
		}

		if len(ids) == 0 {
			// no matching approvals, force an empty result set
			ids = append(ids, constant.Empty)
		}

		resolved.Filters = append(resolved.Filters, gDto.Filter{
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorIn,
			Value:    ids,
			Table:    model.TableName,
		})
	}

	return resolved, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(constant.Role)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if role == constant.RoleEmployee && booking.RequesterID != user {
		return res, failure.Forbidden("employees can only view their own bookings")
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(constant.Role)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return err
	}

	if current.ID == constant.Empty {
		return failure.NotFound("booking not found")
	}

	if role != constant.RoleAdmin {
		if current.RequesterID != user {
			return failure.Forbidden("only the requester or an administrator can update a booking")
		}

		if current.Status != model.StatusPending {
			return failure.InvalidStateTransition("booking can only be edited while pending")
		}
	}

	start, end, err := req.Window()
	if err != nil {
		return failure.BadRequestFromString("start_time and end_time must be RFC3339 timestamps")
	}

	oldValues, newValues, err := changedFields(current, req, start, end)
	if err != nil {
		return err
	}

	if len(newValues) == 0 {
		return nil
	}

	updatedFields := make(map[string]any, len(newValues)+2)
	for field, value := range newValues {
		updatedFields[field] = value
	}
	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = user

	newStart, newEnd := current.StartTime, current.EndTime

	if v, ok := newValues[model.FieldStartTime].(time.Time); ok {
		newStart = v
	}

	if v, ok := newValues[model.FieldEndTime].(time.Time); ok {
		newEnd = v
	}

	windowChanged := !newStart.Equal(current.StartTime) || !newEnd.Equal(current.EndTime)

	if windowChanged {
		// a moved window must pass the overlap check again, under the same
		// vehicle lock the create path takes
		err = s.txRunner.WithTransaction(ctx, func(tx *sqlx.Tx) error {
			if err := s.repo.LockVehicleTx(ctx, tx, current.VehicleID); err != nil {
				return err
			}

			existing, err := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, activeBookingsFilter(current.VehicleID))
			if err != nil {
				return err
			}

			others := make([]model.Booking, 0, len(existing))

			for _, b := range existing {
				if b.ID != current.ID {
					others = append(others, b)
				}
			}

			if conflict := model.FirstOverlapping(others, newStart, newEnd); conflict != nil {
				return overlapConflict(conflict)
			}

			return s.repo.UpdateTx(ctx, tx, updatedFields, filter)
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to update booking")

			return err
		}
	} else if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.audit.Record(ctx, auditDto.Entry{
		ActorID:    user,
		Action:     auditModel.ActionUpdated,
		EntityType: model.EntityName,
		EntityID:   current.ID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Desc:       "booking updated",
	})

	s.invalidateBooking(ctx, current.ID)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, req dto.CancelBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(constant.Role)

	if role != constant.RoleAdmin {
		return failure.Forbidden("only administrators can cancel bookings")
	}

	var (
		booking   model.Booking
		cascaded  []approvalModel.Approval
		oldStatus string
	)

	err = s.txRunner.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.LockBookingTx(ctx, tx, id); err != nil {
			return err
		}

		var err error

		booking, err = s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return err
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found")
		}

		if booking.Status != model.StatusPending && booking.Status != model.StatusApproved {
			return failure.InvalidStateTransition(fmt.Sprintf("booking in status %s cannot be cancelled", booking.Status))
		}

		oldStatus = booking.Status

		if err = s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        model.StatusCancelled,
			model.FieldReason:        req.Reason,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err
		}

		pending, err := s.approvalRepo.GetAllTx(ctx, tx, gDto.QueryParams{}, pendingApprovalsFilter(id))
		if err != nil {
			return err
		}

		systemComment := "booking cancelled by administrator"

		for _, approval := range pending {
			if err = s.approvalRepo.UpdateTx(ctx, tx, map[string]any{
				approvalModel.FieldStatus:   approvalModel.StatusCancelled,
				approvalModel.FieldComments: systemComment,
				constant.FieldModifiedAt:    timezone.Now(),
				constant.FieldModifiedBy:    s.cfg.Booking.SystemActor,
			}, shared.FilterByID(approval.ID, approvalModel.FieldID, approvalModel.TableName)); err != nil {
				return err
			}
		}

		cascaded = pending

		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditDto.Entry{
		ActorID:    user,
		Action:     auditModel.ActionCancelled,
		EntityType: model.EntityName,
		EntityID:   booking.ID,
		OldValues:  map[string]any{model.FieldStatus: oldStatus},
		NewValues:  map[string]any{model.FieldStatus: model.StatusCancelled, model.FieldReason: req.Reason},
		Desc:       "booking cancelled",
	})

	for _, approval := range cascaded {
		s.audit.Record(ctx, auditDto.Entry{
			ActorID:    constant.Empty,
			Action:     auditModel.ActionCancelled,
			EntityType: approvalModel.EntityName,
			EntityID:   approval.ID,
			OldValues:  map[string]any{approvalModel.FieldStatus: approvalModel.StatusPending},
			NewValues:  map[string]any{approvalModel.FieldStatus: approvalModel.StatusCancelled},
			Desc:       fmt.Sprintf("level %d approval cancelled with the booking", approval.Level),
		})
	}

	s.vehicle.Release(ctx, booking.VehicleID)

	s.invalidateBooking(ctx, booking.ID)

	return nil
}

func (s *serviceImpl) invalidateBooking(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func buildApprovals(booking model.Booking, approverL1, approverL2, user string) []approvalModel.Approval {
	meta := gModel.Metadata{
		CreatedAt:  timezone.Now(),
		ModifiedAt: timezone.Now(),
		CreatedBy:  user,
		ModifiedBy: user,
	}

	approvals := []approvalModel.Approval{
		{
			ID:        uuid.NewString(),
			BookingID: booking.ID,
			Level:     approvalModel.LevelOne,
			Status:    approvalModel.StatusPending,
			Metadata:  meta,
		},
		{
			ID:        uuid.NewString(),
			BookingID: booking.ID,
			Level:     approvalModel.LevelTwo,
			Status:    approvalModel.StatusPending,
			Metadata:  meta,
		},
	}

	if approverL1 != constant.Empty {
		approvals[0].ApproverID = toNullString(approverL1)
	}

	if approverL2 != constant.Empty {
		approvals[1].ApproverID = toNullString(approverL2)
	}

	return approvals
}

func overlapConflict(conflict *model.Booking) error {
	return failure.Conflict(fmt.Sprintf("vehicle is already booked by booking %s from %s to %s",
		conflict.ID,
		timezone.Format(conflict.StartTime, constant.DateFormat),
		timezone.Format(conflict.EndTime, constant.DateFormat),
	)) // nolint:wrapcheck
}

func activeBookingsFilter(vehicleID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Table:    model.TableName,
				Field:    model.FieldVehicleID,
				Operator: gDto.FilterOperatorEq,
				Value:    vehicleID,
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{
						ArgName:  "status_approved",
						Table:    model.TableName,
						Field:    model.FieldStatus,
						Operator: gDto.FilterOperatorEq,
						Value:    model.StatusApproved,
					},
					gDto.Filter{
						ArgName:  "status_in_progress",
						Table:    model.TableName,
						Field:    model.FieldStatus,
						Operator: gDto.FilterOperatorEq,
						Value:    model.StatusInProgress,
					},
				},
			},
		},
	}
}

func pendingApprovalsFilter(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Table:    approvalModel.TableName,
				Field:    approvalModel.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
			},
			gDto.Filter{
				Table:    approvalModel.TableName,
				Field:    approvalModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    approvalModel.StatusPending,
			},
		},
	}
}

// changedFields compares the requested edits against the stored booking and
// returns the old and new values of only the fields that actually differ.
func changedFields(current model.Booking, req dto.UpdateBookingRequest, start, end time.Time) (oldValues, newValues map[string]any, err error) {
	oldValues = map[string]any{}
	newValues = map[string]any{}

	if req.DriverID != constant.Empty && req.DriverID != current.DriverID.String {
		oldValues[model.FieldDriverID] = current.DriverID.String
		newValues[model.FieldDriverID] = req.DriverID
	}

	if req.Department != constant.Empty && req.Department != current.Department {
		oldValues[model.FieldDepartment] = current.Department
		newValues[model.FieldDepartment] = req.Department
	}

	if req.Notes != constant.Empty && req.Notes != current.Notes {
		oldValues[model.FieldNotes] = current.Notes
		newValues[model.FieldNotes] = req.Notes
	}

	newStart := current.StartTime
	if !start.IsZero() && !start.Equal(current.StartTime) {
		newStart = start
		oldValues[model.FieldStartTime] = current.StartTime
		newValues[model.FieldStartTime] = start
	}

	newEnd := current.EndTime
	if !end.IsZero() && !end.Equal(current.EndTime) {
		newEnd = end
		oldValues[model.FieldEndTime] = current.EndTime
		newValues[model.FieldEndTime] = end
	}

	if !newStart.Before(newEnd) {
		return nil, nil, failure.BadRequestFromString("end_time must be after start_time")
	}

	return oldValues, newValues, nil
}

func toNullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: true}
}
