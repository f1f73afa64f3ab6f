package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/dispatch/domain/entities/call"
	"github.com/lumen-rp/cadhub/modules/dispatch/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
)

type createCallDTO struct {
	CallerName  string `json:"callerName" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type setStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=OPEN ASSIGNED CLOSED"`
}

type callResponse struct {
	ID          string `json:"id"`
	CallerName  string `json:"callerName"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type DispatchController struct {
	app      application.Application
	basePath string
	validate *validator.Validate
}

func NewDispatchController(app application.Application) application.Controller {
	return &DispatchController{
		app:      app,
		basePath: "/911-calls",
		validate: validator.New(),
	}
}

func (c *DispatchController) Key() string {
	return c.basePath
}

func (c *DispatchController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/ws", c.ws).Methods(http.MethodGet)
	router.HandleFunc("/{id}/status", c.setStatus).Methods(http.MethodPut)
}

func (c *DispatchController) service() *services.CallService {
	return c.app.Service(services.CallService{}).(*services.CallService)
}

func (c *DispatchController) hub() *services.Hub {
	return c.app.Service(services.Hub{}).(*services.Hub)
}

func (c *DispatchController) list(w http.ResponseWriter, r *http.Request) {
	params := composables.UsePaginated(r)
	findParams := &call.FindParams{Limit: params.Limit, Offset: params.Offset}
	if status := r.URL.Query().Get("status"); status != "" {
		findParams.Status = call.Status(status)
	}

	calls, total, err := c.service().List(r.Context(), findParams)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to list emergency calls")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	items := make([]callResponse, 0, len(calls))
	for _, ec := range calls {
		items = append(items, toCallResponse(ec))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func (c *DispatchController) create(w http.ResponseWriter, r *http.Request) {
	var dto createCallDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "FIELD_REQUIRED", "validation failed", nil)
		return
	}

	ec, err := c.service().Create(r.Context(), services.CreateCallParams{
		CallerName:  dto.CallerName,
		Location:    dto.Location,
		Description: dto.Description,
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("emergency call rejected")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toCallResponse(ec))
}

func (c *DispatchController) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "emergency call not found", nil)
		return
	}
	var dto setStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		_ = httpapi.WriteServiceError(w, services.ErrInvalidCallStatus)
		return
	}

	ec, err := c.service().SetStatus(r.Context(), id, call.Status(dto.Status))
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toCallResponse(ec))
}

func (c *DispatchController) ws(w http.ResponseWriter, r *http.Request) {
	tenantID, err := composables.UseTenantID(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "community scope required", nil)
		return
	}
	if err := c.hub().Serve(w, r, tenantID); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("websocket upgrade failed")
	}
}

func toCallResponse(ec *call.Call) callResponse {
	return callResponse{
		ID:          ec.ID.String(),
		CallerName:  ec.CallerName,
		Location:    ec.Location,
		Description: ec.Description,
		Status:      string(ec.Status),
		CreatedAt:   ec.CreatedAt.Format(time.RFC3339),
	}
}
