package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/weapon"
	"github.com/lumen-rp/cadhub/modules/citizens/presentation/controllers/dtos"
	"github.com/lumen-rp/cadhub/modules/citizens/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
)

type WeaponsController struct {
	app      application.Application
	basePath string
	validate *validator.Validate
}

func NewWeaponsController(app application.Application) application.Controller {
	return &WeaponsController{
		app:      app,
		basePath: "/weapons",
		validate: validator.New(),
	}
}

func (c *WeaponsController) Key() string {
	return c.basePath
}

func (c *WeaponsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.register).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
}

func (c *WeaponsController) service() *services.WeaponService {
	return c.app.Service(services.WeaponService{}).(*services.WeaponService)
}

func (c *WeaponsController) list(w http.ResponseWriter, r *http.Request) {
	params := composables.UsePaginated(r)
	findParams := &weapon.FindParams{Limit: params.Limit, Offset: params.Offset}
	if citizenID := r.URL.Query().Get("citizenId"); citizenID != "" {
		id, err := uuid.Parse(citizenID)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "citizenId must be a UUID", nil)
			return
		}
		findParams.CitizenID = &id
	}

	weapons, total, err := c.service().List(r.Context(), findParams)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to list weapons")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	items := make([]dtos.WeaponResponse, 0, len(weapons))
	for _, wp := range weapons {
		items = append(items, toWeaponResponse(wp))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.WeaponListResponse{Items: items, Total: total})
}

func (c *WeaponsController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "weapon not found", nil)
		return
	}
	wp, err := c.service().GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toWeaponResponse(wp))
}

func (c *WeaponsController) register(w http.ResponseWriter, r *http.Request) {
	var dto dtos.RegisterWeaponDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		writeValidationError(w, err)
		return
	}
	citizenID, err := uuid.Parse(dto.CitizenID)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "citizenId must be a UUID", nil)
		return
	}

	wp, req, err := c.service().Register(r.Context(), services.RegisterWeaponParams{
		CitizenID:    citizenID,
		Model:        dto.Model,
		SerialNumber: dto.SerialNumber,
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("weapon registration rejected")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"weapon":    toWeaponResponse(wp),
		"requestId": req.ID.String(),
	})
}

func toWeaponResponse(wp *weapon.Weapon) dtos.WeaponResponse {
	return dtos.WeaponResponse{
		ID:           wp.ID.String(),
		CitizenID:    wp.CitizenID.String(),
		Model:        wp.Model,
		SerialNumber: wp.SerialNumber,
		BOFStatus:    string(wp.BOFStatus),
		CreatedAt:    wp.CreatedAt.Format(time.RFC3339),
	}
}
