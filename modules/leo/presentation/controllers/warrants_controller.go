package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/leo/domain/entities/warrant"
	"github.com/lumen-rp/cadhub/modules/leo/presentation/controllers/dtos"
	"github.com/lumen-rp/cadhub/modules/leo/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
)

type WarrantsController struct {
	app      application.Application
	basePath string
	validate *validator.Validate
}

func NewWarrantsController(app application.Application) application.Controller {
	return &WarrantsController{
		app:      app,
		basePath: "/warrants",
		validate: validator.New(),
	}
}

func (c *WarrantsController) Key() string {
	return c.basePath
}

func (c *WarrantsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
}

func (c *WarrantsController) service() *services.WarrantService {
	return c.app.Service(services.WarrantService{}).(*services.WarrantService)
}

func (c *WarrantsController) list(w http.ResponseWriter, r *http.Request) {
	params := composables.UsePaginated(r)
	findParams := &warrant.FindParams{Limit: params.Limit, Offset: params.Offset}
	if status := r.URL.Query().Get("status"); status != "" {
		findParams.Status = warrant.Status(status)
	}
	if citizenID := r.URL.Query().Get("citizenId"); citizenID != "" {
		id, err := uuid.Parse(citizenID)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "citizenId must be a UUID", nil)
			return
		}
		findParams.CitizenID = &id
	}

	warrants, total, err := c.service().List(r.Context(), findParams)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to list warrants")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	items := make([]dtos.WarrantResponse, 0, len(warrants))
	for _, wr := range warrants {
		items = append(items, toWarrantResponse(wr))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.WarrantListResponse{Items: items, Total: total})
}

func (c *WarrantsController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "warrant not found", nil)
		return
	}
	wr, err := c.service().GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toWarrantResponse(wr))
}

func (c *WarrantsController) create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateWarrantDTO
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

	wr, req, err := c.service().Create(r.Context(), services.CreateWarrantParams{
		CitizenID:   citizenID,
		Description: dto.Description,
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("warrant creation rejected")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"warrant":   toWarrantResponse(wr),
		"requestId": req.ID.String(),
	})
}

func toWarrantResponse(wr *warrant.Warrant) dtos.WarrantResponse {
	return dtos.WarrantResponse{
		ID:             wr.ID.String(),
		CitizenID:      wr.CitizenID.String(),
		OfficerID:      wr.OfficerID.String(),
		Description:    wr.Description,
		Status:         string(wr.Status),
		ApprovalStatus: string(wr.ApprovalStatus),
		CreatedAt:      wr.CreatedAt.Format(time.RFC3339),
	}
}
