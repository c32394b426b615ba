package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/alhamw/vehicle-booking-system-sub000/infras/otel"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/postgres"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	gRepo "github.com/alhamw/vehicle-booking-system-sub000/shared/repository"
)

type Approval interface {
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Approval) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Approval, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Approval, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Approval, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Approval, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Approval]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Approval {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Approval](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
