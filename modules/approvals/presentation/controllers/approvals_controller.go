package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/approvals/presentation/controllers/dtos"
	"github.com/lumen-rp/cadhub/modules/approvals/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
)

// kindRoutes maps URL slugs to workflow kinds. Each slug gets the same pair of
// endpoints: GET lists pending requests, PUT transitions one.
var kindRoutes = map[string]approval.Kind{
	"name-change-requests": approval.KindNameChange,
	"pending-warrants":     approval.KindWarrant,
	"weapon-bofs":          approval.KindWeaponBOF,
	"business-whitelist":   approval.KindBusinessWhitelist,
	"user-whitelist":       approval.KindUserWhitelist,
	"expungement-requests": approval.KindExpungement,
}

type ApprovalsController struct {
	app      application.Application
	basePath string
	validate *validator.Validate
}

func NewApprovalsController(app application.Application) application.Controller {
	return &ApprovalsController{
		app:      app,
		basePath: "/admin/approvals",
		validate: validator.New(),
	}
}

func (c *ApprovalsController) Key() string {
	return c.basePath
}

func (c *ApprovalsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	for slug, kind := range kindRoutes {
		k := kind
		router.HandleFunc("/"+slug, c.list(k)).Methods(http.MethodGet)
		router.HandleFunc("/"+slug+"/{id}", c.transition(k)).Methods(http.MethodPut, http.MethodPost)
	}
}

func (c *ApprovalsController) workflow() *services.WorkflowService {
	return c.app.Service(services.WorkflowService{}).(*services.WorkflowService)
}

func (c *ApprovalsController) list(kind approval.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := composables.UsePaginated(r)
		requests, total, err := c.workflow().ListPending(r.Context(), kind, params.Limit, params.Offset)
		if err != nil {
			composables.UseLogger(r.Context()).WithError(err).Error("failed to list approval requests")
			_ = httpapi.WriteServiceError(w, err)
			return
		}
		items := make([]dtos.RequestResponse, 0, len(requests))
		for _, req := range requests {
			items = append(items, toRequestResponse(req))
		}
		_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.RequestListResponse{Items: items, Total: total})
	}
}

func (c *ApprovalsController) transition(kind approval.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusNotFound, "REQUEST_NOT_FOUND", "approval request not found", nil)
			return
		}

		var dto dtos.TransitionDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_TARGET_STATUS", "invalid request body", nil)
			return
		}
		if err := c.validate.Struct(&dto); err != nil {
			_ = httpapi.WriteServiceError(w, approval.ErrInvalidTargetStatus)
			return
		}

		principal, err := composables.UseUser(r.Context())
		if err != nil {
			_ = httpapi.WriteServiceError(w, approval.ErrUnauthorized)
			return
		}

		updated, err := c.workflow().Transition(r.Context(), kind, id, approval.Status(dto.Type), principal)
		if err != nil {
			composables.UseLogger(r.Context()).WithError(err).Warn("approval transition rejected")
			_ = httpapi.WriteServiceError(w, err)
			return
		}
		_ = httpapi.WriteJSON(w, http.StatusOK, toRequestResponse(updated))
	}
}

func toRequestResponse(req *approval.Request) dtos.RequestResponse {
	var payload interface{}
	if len(req.Payload) > 0 {
		payload = json.RawMessage(req.Payload)
	}
	return dtos.RequestResponse{
		ID:        req.ID.String(),
		Kind:      string(req.Kind),
		Status:    string(req.Status),
		SubjectID: req.SubjectID.String(),
		Payload:   payload,
		CreatedAt: req.CreatedAt.Format(time.RFC3339),
		UpdatedAt: req.UpdatedAt.Format(time.RFC3339),
	}
}
