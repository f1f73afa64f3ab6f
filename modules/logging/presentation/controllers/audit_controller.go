package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/core/permissions"
	"github.com/lumen-rp/cadhub/modules/logging/domain/entities/auditlog"
	"github.com/lumen-rp/cadhub/modules/logging/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
	"github.com/lumen-rp/cadhub/pkg/intl"
)

type entryResponse struct {
	ID             uint   `json:"id"`
	TranslationKey string `json:"translationKey"`
	Message        string `json:"message"`
	ActionType     string `json:"actionType"`
	ExecutorID     string `json:"executorId"`
	Before         any    `json:"before,omitempty"`
	After          any    `json:"after,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

type AuditController struct {
	app      application.Application
	basePath string
}

func NewAuditController(app application.Application) application.Controller {
	return &AuditController{
		app:      app,
		basePath: "/admin/audit",
	}
}

func (c *AuditController) Key() string {
	return c.basePath
}

func (c *AuditController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.list).Methods(http.MethodGet)
}

func (c *AuditController) service() *services.AuditService {
	return c.app.Service(services.AuditService{}).(*services.AuditService)
}

func (c *AuditController) list(w http.ResponseWriter, r *http.Request) {
	caller, err := composables.UseUser(r.Context())
	if err != nil || !caller.Rank().Elevated() || !caller.Can(permissions.ViewAuditLog) {
		_ = httpapi.WriteServiceError(w, approval.ErrUnauthorized)
		return
	}

	pageParams := composables.UsePaginated(r)
	findParams := &auditlog.FindParams{Limit: pageParams.Limit, Offset: pageParams.Offset}
	if actionType := r.URL.Query().Get("actionType"); actionType != "" {
		findParams.ActionType = auditlog.ActionType(actionType)
	}
	if executor := r.URL.Query().Get("executorId"); executor != "" {
		id, err := uuid.Parse(executor)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "executorId must be a UUID", nil)
			return
		}
		findParams.ExecutorID = &id
	}

	entries, total, err := c.service().List(r.Context(), findParams)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to list audit logs")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	items := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryResponse{
			ID:             e.ID,
			TranslationKey: e.TranslationKey,
			Message:        intl.MustT(r.Context(), e.TranslationKey),
			ActionType:     string(e.ActionType),
			ExecutorID:     e.ExecutorID.String(),
			Before:         rawOrNil(e.Before),
			After:          rawOrNil(e.After),
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func rawOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
