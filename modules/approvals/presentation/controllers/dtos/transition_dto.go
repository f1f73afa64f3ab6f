package dtos

// TransitionDTO is the body of PUT /<kind>/{id}.
type TransitionDTO struct {
	Type string `json:"type" validate:"required,oneof=ACCEPTED DECLINED"`
}

type RequestResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Status    string          `json:"status"`
	SubjectID string          `json:"subjectId"`
	Payload   interface{}     `json:"payload,omitempty"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Total int64             `json:"total"`
}
