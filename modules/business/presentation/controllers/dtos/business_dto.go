package dtos

type CreateBusinessDTO struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type BusinessResponse struct {
	ID              string `json:"id"`
	OwnerID         string `json:"ownerId"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	WhitelistStatus string `json:"whitelistStatus"`
	CreatedAt       string `json:"createdAt"`
}

type BusinessListResponse struct {
	Items []BusinessResponse `json:"items"`
	Total int64              `json:"total"`
}
