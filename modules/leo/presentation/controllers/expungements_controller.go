package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/leo/presentation/controllers/dtos"
	"github.com/lumen-rp/cadhub/modules/leo/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
)

type ExpungementsController struct {
	app      application.Application
	basePath string
	validate *validator.Validate
}

func NewExpungementsController(app application.Application) application.Controller {
	return &ExpungementsController{
		app:      app,
		basePath: "/expungements",
		validate: validator.New(),
	}
}

func (c *ExpungementsController) Key() string {
	return c.basePath
}

func (c *ExpungementsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id}/records", c.records).Methods(http.MethodGet)
}

func (c *ExpungementsController) service() *services.ExpungementService {
	return c.app.Service(services.ExpungementService{}).(*services.ExpungementService)
}

func (c *ExpungementsController) create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateExpungementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "FIELD_REQUIRED", "validation failed", nil)
		return
	}
	citizenID, err := uuid.Parse(dto.CitizenID)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "citizenId must be a UUID", nil)
		return
	}
	recordIDs := make([]uuid.UUID, 0, len(dto.RecordIDs))
	for _, raw := range dto.RecordIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "recordIds must be UUIDs", nil)
			return
		}
		recordIDs = append(recordIDs, id)
	}

	req, err := c.service().Create(r.Context(), services.CreateExpungementParams{
		CitizenID: citizenID,
		RecordIDs: recordIDs,
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("expungement request rejected")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]string{
		"requestId": req.ID.String(),
		"status":    string(req.Status),
	})
}

func (c *ExpungementsController) records(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "REQUEST_NOT_FOUND", "expungement request not found", nil)
		return
	}
	links, err := c.service().Records(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	recordIDs := make([]string, 0, len(links))
	for _, link := range links {
		recordIDs = append(recordIDs, link.RecordID.String())
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"recordIds": recordIDs})
}
