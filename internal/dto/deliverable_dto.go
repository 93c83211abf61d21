package dto

import (
	"time"

	"github.com/noah-isme/fyp-go-api/internal/models"
)

// DeliverableCreateRequest describes the payload for creating a deliverable.
type DeliverableCreateRequest struct {
	Name           string  `json:"name" validate:"required,min=3,max=255"`
	Semester       string  `json:"semester" validate:"required,max=16"`
	SubmissionType string  `json:"submission_type" validate:"required,oneof=individual group"`
	Weightage      float64 `json:"weightage" validate:"gte=0,lte=100"`
}

// DeliverableUpdateRequest describes a partial deliverable update.
type DeliverableUpdateRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=3,max=255"`
	Weightage *float64 `json:"weightage" validate:"omitempty,gte=0,lte=100"`
}

// DeliverableFilter describes query string filters for listing deliverables.
type DeliverableFilter struct {
	Semester       *string `query:"semester"`
	SubmissionType *string `query:"submission_type" validate:"omitempty,oneof=individual group"`
}

// DeliverableResponse is returned to API clients for catalog reads.
type DeliverableResponse struct {
	ID             uint             `json:"id"`
	Name           string           `json:"name"`
	Semester       string           `json:"semester"`
	SubmissionType string           `json:"submission_type"`
	Weightage      float64          `json:"weightage"`
	Rubrics        []RubricResponse `json:"rubrics,omitempty"`
	// RegradeRequired is set when a weightage change happened while
	// evaluations already referenced the deliverable; previously computed
	// grades no longer match the new weight.
	RegradeRequired bool      `json:"regrade_required,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewDeliverableResponse converts a Deliverable model into a DTO.
func NewDeliverableResponse(model models.Deliverable) DeliverableResponse {
	return DeliverableResponse{
		ID:             model.ID,
		Name:           model.Name,
		Semester:       model.Semester,
		SubmissionType: model.SubmissionType,
		Weightage:      model.Weightage,
		Rubrics:        NewRubricResponseSlice(model.Rubrics),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewDeliverableResponseSlice converts a slice of models.
func NewDeliverableResponseSlice(items []models.Deliverable) []DeliverableResponse {
	responses := make([]DeliverableResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewDeliverableResponse(item))
	}
	return responses
}
