package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/alhamw/vehicle-booking-system-sub000/infras/otel"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/postgres"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/model"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	gRepo "github.com/alhamw/vehicle-booking-system-sub000/shared/repository"
)

// Audit is append-only: rows are inserted and read, never updated or removed.
type Audit interface {
	Insert(ctx context.Context, model model.AuditLog) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AuditLog, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.AuditLog]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Audit {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.AuditLog](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
