package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/approval"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/audit"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/auth"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/booking"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/driver"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/handlers/vehicle"
	"github.com/alhamw/vehicle-booking-system-sub000/transport/http/middleware"
)

type DomainHandlers struct {
	Auth     auth.Handler
	Vehicle  vehicle.Handler
	Driver   driver.Handler
	Booking  booking.Handler
	Approval approval.Handler
	Audit    audit.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.AppMiddleware.Tracing)
	router.Use(r.AppMiddleware.ClientIP)
	router.Use(r.AppMiddleware.RateLimit())

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Vehicle.Router(routerGroup)
		r.DomainHandlers.Driver.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Approval.Router(routerGroup)
		r.DomainHandlers.Audit.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthRole:       authRole,
	}
}
