package dtos

type CreateWarrantDTO struct {
	CitizenID   string `json:"citizenId" validate:"required,uuid"`
	Description string `json:"description" validate:"required"`
}

type CreateExpungementDTO struct {
	CitizenID string   `json:"citizenId" validate:"required,uuid"`
	RecordIDs []string `json:"recordIds" validate:"required,min=1,dive,uuid"`
}

type WarrantResponse struct {
	ID             string `json:"id"`
	CitizenID      string `json:"citizenId"`
	OfficerID      string `json:"officerId"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	ApprovalStatus string `json:"approvalStatus"`
	CreatedAt      string `json:"createdAt"`
}

type WarrantListResponse struct {
	Items []WarrantResponse `json:"items"`
	Total int64             `json:"total"`
}
