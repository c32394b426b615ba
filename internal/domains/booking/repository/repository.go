package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/alhamw/vehicle-booking-system-sub000/infras/otel"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/postgres"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/model"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/logger"
	gRepo "github.com/alhamw/vehicle-booking-system-sub000/shared/repository"
)

// Advisory lock namespaces. Each paired with an entity id they form the two
// int4 keys of pg_advisory_xact_lock, so vehicle and booking critical
// sections never contend with each other.
const (
	lockScopeVehicle = "booking:vehicle"
	lockScopeBooking = "booking:booking"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	LockVehicleTx(ctx context.Context, sqltx *sqlx.Tx, vehicleID string) error
	LockBookingTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockVehicleTx serializes all booking writes touching one vehicle for the
// lifetime of the transaction.
func (repo *repositoryImpl) LockVehicleTx(ctx context.Context, sqltx *sqlx.Tx, vehicleID string) error {
	return repo.advisoryLock(ctx, sqltx, lockScopeVehicle, vehicleID)
}

// LockBookingTx serializes all decision writes touching one booking for the
// lifetime of the transaction.
func (repo *repositoryImpl) LockBookingTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string) error {
	return repo.advisoryLock(ctx, sqltx, lockScopeBooking, bookingID)
}

func (repo *repositoryImpl) advisoryLock(ctx context.Context, sqltx *sqlx.Tx, scopeName, key string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.advisoryLock", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	query := "SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := sqltx.ExecContext(ctx, query, scopeName, key); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to acquire advisory lock (%s): %w", scopeName, err)
	}

	return nil
}
