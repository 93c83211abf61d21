package dto

import "github.com/noah-isme/fyp-go-api/internal/models"

// ScoreRangeRequest describes one descriptive score band.
type ScoreRangeRequest struct {
	ScoreRange  string `json:"score_range" validate:"required,oneof=0-2 3-4 5-6 7-8 9-10"`
	Description string `json:"description" validate:"required"`
}

// RubricCreateRequest describes the payload for adding a rubric to a
// deliverable. A zero MaxScore falls back to the default of 10.
type RubricCreateRequest struct {
	Criteria    string              `json:"criteria" validate:"required,min=3,max=255"`
	Component   string              `json:"component" validate:"max=255"`
	MaxScore    int                 `json:"max_score" validate:"gte=0,lte=100"`
	ScoreRanges []ScoreRangeRequest `json:"score_ranges" validate:"omitempty,dive"`
}

// ScoreRangeResponse serializes a descriptive score band.
type ScoreRangeResponse struct {
	ScoreRange  string `json:"score_range"`
	Description string `json:"description"`
}

// RubricResponse serializes a rubric criterion.
type RubricResponse struct {
	ID          uint                 `json:"id"`
	Criteria    string               `json:"criteria"`
	Component   string               `json:"component"`
	MaxScore    int                  `json:"max_score"`
	ScoreRanges []ScoreRangeResponse `json:"score_ranges,omitempty"`
}

// NewRubricResponse converts a Rubric model into a DTO. The serialized max
// score is the effective one, never the stored zero.
func NewRubricResponse(model models.Rubric) RubricResponse {
	ranges := make([]ScoreRangeResponse, 0, len(model.ScoreRanges))
	for _, band := range model.ScoreRanges {
		ranges = append(ranges, ScoreRangeResponse{
			ScoreRange:  band.ScoreRange,
			Description: band.Description,
		})
	}

	return RubricResponse{
		ID:          model.ID,
		Criteria:    model.Criteria,
		Component:   model.Component,
		MaxScore:    model.EffectiveMaxScore(),
		ScoreRanges: ranges,
	}
}

// NewRubricResponseSlice converts a slice of models.
func NewRubricResponseSlice(items []models.Rubric) []RubricResponse {
	responses := make([]RubricResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewRubricResponse(item))
	}
	return responses
}
