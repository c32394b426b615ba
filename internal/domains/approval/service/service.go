package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/otel"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/postgres"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/repository"
	auditModel "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model"
	auditDto "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model/dto"
	auditSvc "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/service"
	bookingModel "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model"
	bookingRepo "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/repository"
	vehicleSvc "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/service"
	"github.com/alhamw/vehicle-booking-system-sub000/shared"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/failure"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/timezone"
)

type Approval interface {
	RecordDecision(ctx context.Context, req dto.RecordDecisionRequest, id string) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetApprovalsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ApprovalResponse, error)
}

type serviceImpl struct {
	repo        repository.Approval
	bookingRepo bookingRepo.Booking
	vehicle     vehicleSvc.Vehicle
	audit       auditSvc.Audit
	txRunner    postgres.TxRunner
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Approval,
	bookingRepo bookingRepo.Booking,
	vehicle vehicleSvc.Vehicle,
	audit auditSvc.Audit,
	txRunner postgres.TxRunner,
	cfg *config.Config,
	otel otel.Otel,
) Approval {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		vehicle:     vehicle,
		audit:       audit,
		txRunner:    txRunner,
		cfg:         cfg,
		otel:        otel,
	}
}

// decisionOutcome collects what happened inside the decision transaction so
// audit entries and vehicle sync can run after commit.
type decisionOutcome struct {
	approval         model.Approval
	booking          bookingModel.Booking
	oldBookingStatus string
	newBookingStatus string
	cascadedSibling  *model.Approval
}

func (s *serviceImpl) RecordDecision(ctx context.Context, req dto.RecordDecisionRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordDecision")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(constant.Role)

	approval, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get approval")

		return err
	}

	if approval.ID == constant.Empty {
		return failure.NotFound("approval not found")
	}

	if role.ApprovalLevel() != approval.Level {
		return failure.Forbidden(fmt.Sprintf("your role cannot decide level %d approvals", approval.Level))
	}

	if approval.ApproverID.Valid && approval.ApproverID.String != user {
		return failure.Forbidden("this approval is assigned to another approver")
	}

	if approval.Status != model.StatusPending {
		return failure.AlreadyProcessed(fmt.Sprintf("approval has already been %s", approval.Status))
	}

	if req.Decision == model.DecisionReject && req.Comments == constant.Empty {
		return failure.BadRequestFromString("comments are required when rejecting")
	}

	var outcome decisionOutcome

	err = s.txRunner.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		outcome, err = s.decide(ctx, tx, req, approval.BookingID, id, user)

		return err
	})
	if err != nil {
		return err
	}

	s.recordAudits(ctx, req, outcome, user)
	s.syncVehicle(ctx, req, outcome)

	return nil
}

func (s *serviceImpl) decide(ctx context.Context, tx *sqlx.Tx, req dto.RecordDecisionRequest, bookingID, approvalID, user string) (outcome decisionOutcome, err error) {
	if err = s.bookingRepo.LockBookingTx(ctx, tx, bookingID); err != nil {
		return outcome, err
	}

	// Re-read under the lock: a concurrent decision may have landed between
	// the pre-checks and here.
	approval, err := s.repo.GetTx(ctx, tx, shared.FilterByID(approvalID, model.FieldID, model.TableName))
	if err != nil {
		return outcome, err
	}

	if approval.Status != model.StatusPending {
		return outcome, failure.AlreadyProcessed(fmt.Sprintf("approval has already been %s", approval.Status))
	}

	booking, err := s.bookingRepo.GetTx(ctx, tx, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		return outcome, err
	}

	if booking.ID == constant.Empty {
		return outcome, failure.NotFound("booking not found")
	}

	outcome.oldBookingStatus = booking.Status
	outcome.newBookingStatus = booking.Status

	approvalFields := map[string]any{
		model.FieldApproverID:    user,
		model.FieldComments:      req.Comments,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.Decision == model.DecisionApprove {
		approvalFields[model.FieldStatus] = model.StatusApproved
		// decided_at is only stamped on approval, rejections carry the
		// timestamp in metadata alone.
		approvalFields[model.FieldDecidedAt] = timezone.Now()
	} else {
		approvalFields[model.FieldStatus] = model.StatusRejected
	}

	if err = s.repo.UpdateTx(ctx, tx, approvalFields, shared.FilterByID(approvalID, model.FieldID, model.TableName)); err != nil {
		return outcome, err
	}

	outcome.approval = approval
	outcome.booking = booking

	if req.Decision == model.DecisionApprove {
		err = s.applyApproval(ctx, tx, &outcome, bookingID)
	} else {
		err = s.applyRejection(ctx, tx, &outcome, req.Comments, bookingID)
	}

	return outcome, err
}

// applyApproval re-derives the booking status from both approval rows. Level 2
// may approve before level 1; the booking only reaches approved once both rows
// agree, and moves to in_progress as soon as level 1 alone has approved.
func (s *serviceImpl) applyApproval(ctx context.Context, tx *sqlx.Tx, outcome *decisionOutcome, bookingID string) error {
	rows, err := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, bookingApprovalsFilter(bookingID))
	if err != nil {
		return err
	}

	l1Approved, l2Approved := false, false

	for _, row := range rows {
		approved := row.Status == model.StatusApproved

		switch row.Level {
		case model.LevelOne:
			l1Approved = approved
		case model.LevelTwo:
			l2Approved = approved
		}
	}

	target := outcome.oldBookingStatus

	switch {
	case l1Approved && l2Approved:
		target = bookingModel.StatusApproved
	case l1Approved:
		target = bookingModel.StatusInProgress
	}

	if target == outcome.oldBookingStatus {
		return nil
	}

	outcome.newBookingStatus = target

	return s.bookingRepo.UpdateTx(ctx, tx, map[string]any{
		bookingModel.FieldStatus: target,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: s.cfg.Booking.SystemActor,
	}, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
}

func (s *serviceImpl) applyRejection(ctx context.Context, tx *sqlx.Tx, outcome *decisionOutcome, comments, bookingID string) error {
	outcome.newBookingStatus = bookingModel.StatusRejected

	if err := s.bookingRepo.UpdateTx(ctx, tx, map[string]any{
		bookingModel.FieldStatus: bookingModel.StatusRejected,
		bookingModel.FieldReason: comments,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: s.cfg.Booking.SystemActor,
	}, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
		return err
	}

	rows, err := s.repo.GetAllTx(ctx, tx, gDto.QueryParams{}, bookingApprovalsFilter(bookingID))
	if err != nil {
		return err
	}

	for _, row := range rows {
		if row.ID == outcome.approval.ID || row.Status != model.StatusPending {
			continue
		}

		sibling := row

		if err := s.repo.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:        model.StatusCancelled,
			model.FieldComments:      fmt.Sprintf("cancelled after level %d rejection", outcome.approval.Level),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: s.cfg.Booking.SystemActor,
		}, shared.FilterByID(sibling.ID, model.FieldID, model.TableName)); err != nil {
			return err
		}

		outcome.cascadedSibling = &sibling
	}

	return nil
}

func (s *serviceImpl) recordAudits(ctx context.Context, req dto.RecordDecisionRequest, outcome decisionOutcome, user string) {
	action := auditModel.ActionApproved
	newStatus := model.StatusApproved

	if req.Decision == model.DecisionReject {
		action = auditModel.ActionRejected
		newStatus = model.StatusRejected
	}

	s.audit.Record(ctx, auditDto.Entry{
		ActorID:    user,
		Action:     action,
		EntityType: model.EntityName,
		EntityID:   outcome.approval.ID,
		OldValues:  map[string]any{model.FieldStatus: model.StatusPending},
		NewValues:  map[string]any{model.FieldStatus: newStatus, model.FieldComments: req.Comments},
		Desc:       fmt.Sprintf("level %d approval %s", outcome.approval.Level, newStatus),
	})

	if outcome.cascadedSibling != nil {
		s.audit.Record(ctx, auditDto.Entry{
			ActorID:    constant.Empty,
			Action:     auditModel.ActionCancelled,
			EntityType: model.EntityName,
			EntityID:   outcome.cascadedSibling.ID,
			OldValues:  map[string]any{model.FieldStatus: model.StatusPending},
			NewValues:  map[string]any{model.FieldStatus: model.StatusCancelled},
			Desc:       fmt.Sprintf("level %d approval cancelled after level %d rejection", outcome.cascadedSibling.Level, outcome.approval.Level),
		})
	}

	if outcome.newBookingStatus != outcome.oldBookingStatus {
		s.audit.Record(ctx, auditDto.Entry{
			ActorID:    constant.Empty,
			Action:     action,
			EntityType: bookingModel.EntityName,
			EntityID:   outcome.booking.ID,
			OldValues:  map[string]any{bookingModel.FieldStatus: outcome.oldBookingStatus},
			NewValues:  map[string]any{bookingModel.FieldStatus: outcome.newBookingStatus},
			Desc:       fmt.Sprintf("booking moved to %s by level %d decision", outcome.newBookingStatus, outcome.approval.Level),
		})
	}
}

func (s *serviceImpl) syncVehicle(ctx context.Context, req dto.RecordDecisionRequest, outcome decisionOutcome) {
	if req.Decision == model.DecisionReject {
		s.vehicle.Release(ctx, outcome.booking.VehicleID)

		return
	}

	// Activation: the booking left pending because level 1 signed off.
	if outcome.oldBookingStatus == bookingModel.StatusPending && outcome.newBookingStatus != bookingModel.StatusPending {
		s.vehicle.MarkInUse(ctx, outcome.booking.VehicleID)
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetApprovalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count approvals")

		return res, fmt.Errorf("failed to count approvals: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get approvals")

		return res, fmt.Errorf("failed to get approvals: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count approvals")

		return res, fmt.Errorf("failed to count approvals: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ApprovalResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	approval, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get approval")

		return res, fmt.Errorf("failed to get approval: %w", err)
	}

	if approval.ID == constant.Empty {
		return res, failure.NotFound("approval not found") // nolint:wrapcheck
	}

	res.FromModel(approval)

	return res, nil
}

func bookingApprovalsFilter(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Table:    model.TableName,
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
			},
		},
	}
}
