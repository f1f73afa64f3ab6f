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

type UsersController struct {
	app      application.Application
	validate *validator.Validate
}

func NewUsersController(app application.Application) application.Controller {
	return &UsersController{
		app:      app,
		validate: validator.New(),
	}
}

func (c *UsersController) Key() string {
	return "/users"
}

func (c *UsersController) Register(r *mux.Router) {
	r.HandleFunc("/users/join", c.join).Methods(http.MethodPost)
	admin := r.PathPrefix("/admin/users").Subrouter()
	admin.HandleFunc("", c.list).Methods(http.MethodGet)
	admin.HandleFunc("/{id}/rank", c.setRank).Methods(http.MethodPut)
	admin.HandleFunc("/{id}/permissions", c.setPermissions).Methods(http.MethodPut)
}

func (c *UsersController) service() *services.UserService {
	return c.app.Service(services.UserService{}).(*services.UserService)
}

func (c *UsersController) join(w http.ResponseWriter, r *http.Request) {
	var dto dtos.JoinDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "FIELD_REQUIRED", "validation failed", nil)
		return
	}

	u, req, err := c.service().Join(r.Context(), dto.Username)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("user join rejected")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"user":      toUserResponse(u),
		"requestId": req.ID.String(),
	})
}

func (c *UsersController) list(w http.ResponseWriter, r *http.Request) {
	caller, err := composables.UseUser(r.Context())
	if err != nil || !caller.Rank().Elevated() {
		_ = httpapi.WriteServiceError(w, approval.ErrUnauthorized)
		return
	}

	params := composables.UsePaginated(r)
	findParams := &user.FindParams{Limit: params.Limit, Offset: params.Offset}
	if status := r.URL.Query().Get("whitelistStatus"); status != "" {
		findParams.WhitelistStatus = user.WhitelistStatus(status)
	}

	users, total, err := c.service().List(r.Context(), findParams)
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to list users")
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	items := make([]dtos.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &dtos.UserListResponse{Items: items, Total: total})
}

func (c *UsersController) setRank(w http.ResponseWriter, r *http.Request) {
	caller, err := composables.UseUser(r.Context())
	if err != nil || caller.Rank() != user.RankOwner {
		_ = httpapi.WriteServiceError(w, approval.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "user not found", nil)
		return
	}
	var dto dtos.SetRankDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		_ = httpapi.WriteServiceError(w, services.ErrInvalidRank)
		return
	}

	if err := c.service().SetRank(r.Context(), id, user.Rank(dto.Rank)); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"rank": dto.Rank})
}

func (c *UsersController) setPermissions(w http.ResponseWriter, r *http.Request) {
	caller, err := composables.UseUser(r.Context())
	if err != nil || caller.Rank() != user.RankOwner {
		_ = httpapi.WriteServiceError(w, approval.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusNotFound, "SUBJECT_NOT_FOUND", "user not found", nil)
		return
	}
	var dto dtos.SetPermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_FIELD", "invalid request body", nil)
		return
	}
	if err := c.validate.Struct(&dto); err != nil {
		_ = httpapi.WriteServiceError(w, services.ErrInvalidPermission)
		return
	}

	if err := c.service().SetPermissions(r.Context(), id, dto.Permissions); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"permissions": dto.Permissions})
}

func toUserResponse(u user.User) dtos.UserResponse {
	return dtos.UserResponse{
		ID:              u.ID().String(),
		Username:        u.Username(),
		Rank:            string(u.Rank()),
		WhitelistStatus: string(u.WhitelistStatus()),
		Banned:          u.Banned(),
		CreatedAt:       u.CreatedAt().Format(time.RFC3339),
	}
}
