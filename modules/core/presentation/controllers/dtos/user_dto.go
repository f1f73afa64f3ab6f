package dtos

type JoinDTO struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
}

type SetRankDTO struct {
	Rank string `json:"rank" validate:"required,oneof=USER MODERATOR ADMIN OWNER"`
}

type SetPermissionsDTO struct {
	Permissions []string `json:"permissions" validate:"required"`
}

type CreateTokenDTO struct {
	Name string `json:"name" validate:"required"`
}

type UserResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Rank            string `json:"rank"`
	WhitelistStatus string `json:"whitelistStatus"`
	Banned          bool   `json:"banned"`
	CreatedAt       string `json:"createdAt"`
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
}

type TokenResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Token     string `json:"token"`
	CreatedAt string `json:"createdAt"`
}
