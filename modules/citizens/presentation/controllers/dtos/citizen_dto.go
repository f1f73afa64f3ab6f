package dtos

type CreateCitizenDTO struct {
	Name        string `json:"name" validate:"required"`
	Surname     string `json:"surname" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required"`
}

type NameChangeDTO struct {
	NewName    string `json:"newName" validate:"required"`
	NewSurname string `json:"newSurname" validate:"required"`
}

type RegisterWeaponDTO struct {
	CitizenID    string `json:"citizenId" validate:"required,uuid"`
	Model        string `json:"model" validate:"required"`
	SerialNumber string `json:"serialNumber" validate:"required"`
}

type CitizenResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	DateOfBirth string `json:"dateOfBirth"`
	CreatedAt   string `json:"createdAt"`
}

type CitizenListResponse struct {
	Items []CitizenResponse `json:"items"`
	Total int64             `json:"total"`
}

type WeaponResponse struct {
	ID           string `json:"id"`
	CitizenID    string `json:"citizenId"`
	Model        string `json:"model"`
	SerialNumber string `json:"serialNumber"`
	BOFStatus    string `json:"bofStatus"`
	CreatedAt    string `json:"createdAt"`
}

type WeaponListResponse struct {
	Items []WeaponResponse `json:"items"`
	Total int64            `json:"total"`
}
