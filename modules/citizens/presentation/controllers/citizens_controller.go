package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/citizens/domain/entities/citizen"
	"github.com/lumen-rp/cadhub/modules/citizens/presentation/controllers/dtos"
	"github.com/lumen-rp/cadhub/modules/citizens/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
	"github.com/lumen-rp/cadhub/pkg/serrors"
)

type CitizensController struct {
	app      application.Application
	basePath string
	validate *validator.Validate
}

func NewCitizensController(app application.Application) application.Controller {
	return &CitizensController{
		app:      app,
		basePath: "/citizens",
		validate: validator.New(),
	}
}

func (c *CitizensController) Key() string {
	return c.basePath
}

func (c *CitizensController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/name-change", c.nameChange).Methods(http.MethodPost)
}

func (c *CitizensController) service() *services.CitizenService {
	return c.app.Service(services.CitizenService{}).(*services.CitizenService)
}

func (c *CitizensController) list(w http.ResponseWriter, r *http.Request) {
	params := composables.UsePaginated(r)
	findParams := &citizen.FindParams{Limit: params.Limit, Offset: params.Offset}
	if caller, err := composables.UseUser(r.Context()); err == nil && !caller.Rank().Elevated() {
		ownerID := caller.ID()
		findParams.OwnerID = &ownerID
	}

	citizens, total, err := c.service().List(r.Context(), findParams)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to list citizens")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	items := make([]dtos.CitizenResponse, 0, len(citizens))
	for _, cz := range citizens {
		items = append(items, toCitizenResponse(cz))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.CitizenListResponse{Items: items, Total: total})
}

func (c *CitizensController) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "citizen not found", nil)
		return
	}
	cz, err := c.service().GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toCitizenResponse(cz))
}

func (c *CitizensController) create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CreateCitizenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		writeValidationError(w, err)
		return
	}
	dob, err := time.Parse("2006-01-02", dto.DateOfBirth)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "dateOfBirth must be YYYY-MM-DD", nil)
		return
	}

	cz, err := c.service().Create(r.Context(), services.CreateCitizenParams{
		Name:        dto.Name,
		Surname:     dto.Surname,
		DateOfBirth: dob,
	})
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toCitizenResponse(cz))
}

func (c *CitizensController) nameChange(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "citizen not found", nil)
		return
	}
	var dto dtos.NameChangeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		writeValidationError(w, err)
		return
	}

	req, err := c.service().RequestNameChange(r.Context(), id, dto.NewName, dto.NewSurname)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("name change request rejected")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]string{
		"requestId": req.ID.String(),
		"status":    string(req.Status),
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := serrors.ProcessValidatorErrors(verrs, func(field string) string {
			return "Citizens.Errors." + field
		})
		meta := make(map[string]string, len(fields))
		for field, ferr := range fields {
			meta[field] = ferr.Message
		}
		_ = httpapi.WriteError(w, http.StatusBadRequest, "FIELD_REQUIRED", "validation failed", meta)
		return
	}
	_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "validation failed", nil)
}

func toCitizenResponse(cz *citizen.Citizen) dtos.CitizenResponse {
	return dtos.CitizenResponse{
		ID:          cz.ID.String(),
		Name:        cz.Name,
		Surname:     cz.Surname,
		DateOfBirth: cz.DateOfBirth.Format("2006-01-02"),
		CreatedAt:   cz.CreatedAt.Format(time.RFC3339),
	}
}
