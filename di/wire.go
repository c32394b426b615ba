//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/alhamw/vehicle-booking-system-sub000/config"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/jwt"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/kafka"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/otel"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/postgres"
	"github.com/alhamw/vehicle-booking-system-sub000/infras/redis"
	"github.com/alhamw/vehicle-booking-system-sub000/permissions"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/cache"
	"github.com/alhamw/vehicle-booking-system-sub000/transport/http"
	"github.com/alhamw/vehicle-booking-system-sub000/transport/http/middleware"
	"github.com/alhamw/vehicle-booking-system-sub000/transport/http/router"

	approvalRepository "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/repository"
	approvalService "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/service"
	auditRepository "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/repository"
	auditService "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/audit/service"
	authService "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/auth/service"
	bookingRepository "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/repository"
	bookingService "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/booking/service"
	driverRepository "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/driver/repository"
	driverService "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/driver/service"
	userRepository "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/user/repository"
	vehicleRepository "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/repository"
	vehicleService "github.com/alhamw/vehicle-booking-system-sub000/internal/domains/vehicle/service"
	approvalHandler "github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/approval"
	auditHandler "github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/audit"
	authHandler "github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/auth"
	bookingHandler "github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/booking"
	driverHandler "github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/driver"
	vehicleHandler "github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/vehicle"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.TxRunner), new(*postgres.Connection)),
	otel.New,
	redis.New,
	kafka.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var vehicleDomain = wire.NewSet(
	vehicleRepository.New,
	vehicleService.New,
)

var driverDomain = wire.NewSet(
	driverRepository.New,
	driverService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var approvalDomain = wire.NewSet(
	approvalRepository.New,
	approvalService.New,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
)

var domains = wire.NewSet(
	authDomain,
	vehicleDomain,
	driverDomain,
	bookingDomain,
	approvalDomain,
	auditDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	vehicleHandler.New,
	driverHandler.New,
	bookingHandler.New,
	approvalHandler.New,
	auditHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
