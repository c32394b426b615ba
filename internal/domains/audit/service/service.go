package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/kafka"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/otel"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/repository"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/timezone"
)

type Audit interface {
	Record(ctx context.Context, entry dto.Entry)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAuditLogsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo  repository.Audit
	cfg   *config.Config
	kafka kafka.Client
	otel  otel.Otel
}

func New(repo repository.Audit, cfg *config.Config, kafka kafka.Client, otel otel.Otel) Audit {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		kafka: kafka,
		otel:  otel,
	}
}

// Record persists one audit entry and publishes it to the audit topic. It is
// deliberately infallible for callers: the audited operation has already
// committed, so a failed insert or publish is telemetry, never a rollback.
func (s *serviceImpl) Record(ctx context.Context, entry dto.Entry) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelAuditScopeName, constant.OtelAuditScopeName+".Record")
	defer scope.End()

	clientIP, _ := ctx.Value(constant.ContextKeyClientIP).(string)

	actorID := sql.NullString{}
	if entry.ActorID != constant.Empty && entry.ActorID != s.cfg.Booking.SystemActor {
		actorID = sql.NullString{String: entry.ActorID, Valid: true}
	}

	auditLog := model.AuditLog{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Desc:       entry.Desc,
		ClientIP:   clientIP,
		CreatedAt:  timezone.Now(),
	}

	if len(entry.OldValues) > 0 {
		payload, err := json.Marshal(entry.OldValues)
		if err != nil {
			log.Error().Err(err).Str("entityID", entry.EntityID).Msg("failed to marshal audit old values")
			scope.TraceError(err)
		} else {
			auditLog.OldValues = types.JSONText(payload)
		}
	}

	if len(entry.NewValues) > 0 {
		payload, err := json.Marshal(entry.NewValues)
		if err != nil {
			log.Error().Err(err).Str("entityID", entry.EntityID).Msg("failed to marshal audit new values")
			scope.TraceError(err)
		} else {
			auditLog.NewValues = types.JSONText(payload)
		}
	}

	if err := s.repo.Insert(ctx, auditLog); err != nil {
		log.Error().Err(err).
			Str("action", entry.Action).
			Str("entityType", entry.EntityType).
			Str("entityID", entry.EntityID).
			Msg("failed to insert audit log")
		scope.TraceError(err)
	}

	message := kafka.Message{
		Key:   fmt.Sprintf("%s:%s", entry.EntityType, entry.EntityID),
		Value: auditLog,
	}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.AuditTopic, message); err != nil {
		log.Error().Err(err).
			Str("topic", s.cfg.Kafka.AuditTopic).
			Str("entityID", entry.EntityID).
			Msg("failed to publish audit event")
		scope.TraceError(err)
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAuditLogsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit logs")

		return res, fmt.Errorf("failed to count audit logs: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit logs")

		return res, fmt.Errorf("failed to get audit logs: %w", err)
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
		log.Error().Err(err).Msg("failed to count audit logs")

		return res, fmt.Errorf("failed to count audit logs: %w", err)
	}

	return res, nil
}
