package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/business/domain/entities/business"
	"github.com/lumen-rp/cadhub/modules/business/presentation/controllers/dtos"
	"github.com/lumen-rp/cadhub/modules/business/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
)

type BusinessesController struct {
	app      application.Application
	basePath string
	validate *validator.Validate
}

func NewBusinessesController(app application.Application) application.Controller {
	return &BusinessesController{
		app:      app,
		basePath: "/businesses",
		validate: validator.New(),
	}
}

func (c *BusinessesController) Key() string {
	return c.basePath
}

func (c *BusinessesController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
}

func (c *BusinessesController) service() *services.BusinessService {
	return c.app.Service(services.BusinessService{}).(*services.BusinessService)
}

func (c *BusinessesController) list(w http.ResponseWriter, r *http.Request) {
	params := composables.UsePaginated(r)
	findParams := &business.FindParams{Limit: params.Limit, Offset: params.Offset}
	if status := r.URL.Query().Get("status"); status != "" {
		findParams.WhitelistStatus = business.WhitelistStatus(status)
	}

	businesses, total, err := c.service().List(r.Context(), findParams)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to list businesses")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	items := make([]dtos.BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		items = append(items, toBusinessResponse(b))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.BusinessListResponse{Items: items, Total: total})
}

func (c *BusinessesController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "business not found", nil)
		return
	}
	b, err := c.service().GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toBusinessResponse(b))
}

func (c *BusinessesController) create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateBusinessDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "FIELD_REQUIRED", "validation failed", nil)
		return
	}

	b, req, err := c.service().Create(r.Context(), services.CreateBusinessParams{
		Name:    dto.Name,
		Address: dto.Address,
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("business registration rejected")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"business":  toBusinessResponse(b),
		"requestId": req.ID.String(),
	})
}

func toBusinessResponse(b *business.Business) dtos.BusinessResponse {
	return dtos.BusinessResponse{
		ID:              b.ID.String(),
		OwnerID:         b.OwnerID.String(),
		Name:            b.Name,
		Address:         b.Address,
		WhitelistStatus: string(b.WhitelistStatus),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}
