package approval

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/alhamw/vehicle-booking-system-sub000/infras/otel"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/model/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/internal/domains/approval/service"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/constant"
	gDto "github.com/alhamw/vehicle-booking-system-sub000/shared/dto"
	"github.com/alhamw/vehicle-booking-system-sub000/shared/validator"
	"github.com/alhamw/vehicle-booking-system-sub000/transport/http/response"
)

type Handler struct {
	service service.Approval
	otel    otel.Otel
}

func New(service service.Approval, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/approvals", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetApprovals)
		routerGroup.Get("/{id}", handler.GetApprovalByID)
		routerGroup.Post("/{id}/decision", handler.RecordDecision)
	})
}

// GetApprovals lists approvals with optional status, level and booking
// filters. Approvers default to their own level unless show_all is set.
func (handler *Handler) GetApprovals(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetApprovals")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := approvalListFilter(ctx, r)

	approvals, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get approvals")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Approvals retrieved successfully")

	response.WithJSON(w, http.StatusOK, approvals)
}

func (handler *Handler) GetApprovalByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetApprovalByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	approval, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get approval by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Approval retrieved successfully")

	response.WithJSON(w, http.StatusOK, approval)
}

// RecordDecision applies an approve or reject decision to a pending approval.
// The decision cascades to the booking and, on rejection, to the sibling
// approval.
func (handler *Handler) RecordDecision(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordDecision")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RecordDecisionRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.RecordDecision(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record approval decision")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Approval decision recorded successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Approval decision recorded successfully")
}

func approvalListFilter(ctx context.Context, r *http.Request) gDto.FilterGroup {
	status := r.URL.Query().Get(model.FieldStatus)
	level := r.URL.Query().Get(model.FieldLevel)
	bookingID := r.URL.Query().Get(model.FieldBookingID)
	showAll := r.URL.Query().Get("show_all") == "true"

	role, _ := ctx.Value(constant.ContextKeyUserRole).(constant.Role)

	// Approvers see their own level by default; administrators always see
	// everything.
	if level == "" && !showAll && role.ApprovalLevel() > 0 {
		level = strconv.Itoa(role.ApprovalLevel())
	}

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if level != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldLevel,
			Operator: gDto.FilterOperatorEq,
			Value:    level,
			Table:    model.TableName,
		})
	}

	if bookingID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldBookingID,
			Operator: gDto.FilterOperatorEq,
			Value:    bookingID,
			Table:    model.TableName,
		})
	}

	return filterGroup
}
