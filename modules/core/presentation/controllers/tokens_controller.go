package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lumen-rp/cadhub/modules/approvals/domain/approval"
	"github.com/lumen-rp/cadhub/modules/core/domain/aggregates/user"
	"github.com/lumen-rp/cadhub/modules/core/presentation/controllers/dtos"
	"github.com/lumen-rp/cadhub/modules/core/services"
	"github.com/lumen-rp/cadhub/pkg/application"
	"github.com/lumen-rp/cadhub/pkg/composables"
	"github.com/lumen-rp/cadhub/pkg/httpapi"
)

// TokensController manages shared-secret credentials for external CAD
// integrations. Owner rank only.
type TokensController struct {
	app      application.Application
	basePath string
	validate *validator.Validate
}

func NewTokensController(app application.Application) application.Controller {
	return &TokensController{
		app:      app,
		basePath: "/admin/api-tokens",
		validate: validator.New(),
	}
}

func (c *TokensController) Key() string {
	return c.basePath
}

func (c *TokensController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.disable).Methods(http.MethodDelete)
}

func (c *TokensController) service() *services.AuthService {
	return c.app.Service(services.AuthService{}).(*services.AuthService)
}

func (c *TokensController) create(w http.ResponseWriter, r *http.Request) {
	caller, err := composables.UseUser(r.Context())
	if err != nil || caller.Rank() != user.RankOwner {
		_ = httpapi.WriteServiceError(w, approval.ErrUnauthorized)
		return
	}

	var dto dtos.CreateTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "FIELD_REQUIRED", "validation failed", nil)
		return
	}

	t, err := c.service().CreateToken(r.Context(), dto.Name)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to create api token")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, &dtos.TokenResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Token:     t.Token,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	})
}

func (c *TokensController) disable(w http.ResponseWriter, r *http.Request) {
	caller, err := composables.UseUser(r.Context())
	if err != nil || caller.Rank() != user.RankOwner {
		_ = httpapi.WriteServiceError(w, approval.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "api token not found", nil)
		return
	}
	if err := c.service().DisableToken(r.Context(), id); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
