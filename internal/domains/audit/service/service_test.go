package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/kafka"
	kafkaMocks "github.com/alhamw/vehicle-booking-system-sub000/infras/kafka/mocks"
	otelMocks "github.com/alhamw/vehicle-booking-system-sub000/infras/otel/mocks"
	auditMocks "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/mocks"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/service"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
)

type auditFixture struct {
	repo  *auditMocks.MockAudit
	kafka *kafkaMocks.MockClient
	svc   service.Audit
}

func newAuditFixture(t *testing.T) *auditFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &auditFixture{
		repo:  auditMocks.NewMockAudit(ctrl),
		kafka: kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Booking.SystemActor = "system"
	cfg.Kafka.AuditTopic = "audit.events"

	f.svc = service.New(f.repo, cfg, f.kafka, otelMocks.NewOtel())

	return f
}

func TestAuditService_Record(t *testing.T) {
	entry := dto.Entry{
		ActorID:    "user-1",
		Action:     model.ActionUpdated,
		EntityType: "booking",
		EntityID:   "booking-1",
		OldValues:  map[string]any{"status": "pending"},
		NewValues:  map[string]any{"status": "cancelled"},
		Desc:       "booking cancelled",
	}

	t.Run("persists the entry and publishes it", func(t *testing.T) {
		f := newAuditFixture(t)

		ctx := context.WithValue(context.Background(), constant.ContextKeyClientIP, "10.0.0.7")

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, auditLog model.AuditLog) error {
				assert.NotEmpty(t, auditLog.ID)
				assert.Equal(t, "user-1", auditLog.ActorID.String)
				assert.True(t, auditLog.ActorID.Valid)
				assert.Equal(t, "10.0.0.7", auditLog.ClientIP)

				var oldValues map[string]any
				assert.NoError(t, json.Unmarshal(auditLog.OldValues, &oldValues))
				assert.Equal(t, "pending", oldValues["status"])

				return nil
			})
		f.kafka.EXPECT().SendMessages(gomock.Any(), "audit.events", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				assert.Len(t, messages, 1)
				assert.Equal(t, "booking:booking-1", messages[0].Key)

				return nil
			})

		f.svc.Record(ctx, entry)
	})

	t.Run("system actions carry a null actor", func(t *testing.T) {
		f := newAuditFixture(t)

		systemEntry := entry
		systemEntry.ActorID = "system"

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, auditLog model.AuditLog) error {
				assert.False(t, auditLog.ActorID.Valid)

				return nil
			})
		f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		f.svc.Record(context.Background(), systemEntry)
	})

	t.Run("insert failure still publishes and never panics", func(t *testing.T) {
		f := newAuditFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
		f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		f.svc.Record(context.Background(), entry)
	})

	t.Run("publish failure is swallowed", func(t *testing.T) {
		f := newAuditFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))

		f.svc.Record(context.Background(), entry)
	})
}
