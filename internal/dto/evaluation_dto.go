package dto

import (
	"time"

	"github.com/noah-isme/fyp-go-api/internal/models"
)

// EvaluationSubmitRequest carries one rater's grading of one deliverable.
// StudentID is required for individual deliverables and must be absent for
// group deliverables; GroupID is always required because assignment checks
// are keyed on the group.
type EvaluationSubmitRequest struct {
	RaterRole     string       `json:"rater_role" validate:"required,oneof=supervisor assessor coordinator"`
	StudentID     *uint        `json:"student_id" validate:"omitempty,gt=0"`
	GroupID       uint         `json:"group_id" validate:"required,gt=0"`
	DeliverableID uint         `json:"deliverable_id" validate:"required,gt=0"`
	Scores        map[uint]int `json:"rubric_scores" validate:"required"`
	Feedback      string       `json:"feedback" validate:"required,min=3"`
}

// EvaluableQuery describes query string parameters for listing deliverables
// a rater may still evaluate.
type EvaluableQuery struct {
	RaterRole string `query:"rater_role" validate:"required,oneof=supervisor assessor coordinator"`
	StudentID *uint  `query:"student_id" validate:"omitempty,gt=0"`
	GroupID   uint   `query:"group_id" validate:"required,gt=0"`
	Semester  string `query:"semester" validate:"required,max=16"`
}

// EvaluationViewQuery describes query string parameters for the per-rater
// evaluation state view.
type EvaluationViewQuery struct {
	RaterRole string `query:"rater_role" validate:"required,oneof=supervisor assessor coordinator"`
	StudentID *uint  `query:"student_id" validate:"omitempty,gt=0"`
	GroupID   *uint  `query:"group_id" validate:"omitempty,gt=0"`
	Semester  string `query:"semester" validate:"required,max=16"`
}

// RubricScoreResponse serializes one raw rubric score of an evaluation.
type RubricScoreResponse struct {
	RubricID uint `json:"rubric_id"`
	Score    int  `json:"score"`
}

// EvaluationResponse is returned after a successful submit.
type EvaluationResponse struct {
	ID            uint                  `json:"id"`
	SubjectType   string                `json:"subject_type"`
	SubjectID     uint                  `json:"subject_id"`
	DeliverableID uint                  `json:"deliverable_id"`
	RaterRole     string                `json:"rater_role"`
	RaterID       uint                  `json:"rater_id"`
	Grade         float64               `json:"evaluation_grade"`
	Feedback      string                `json:"feedback"`
	Date          time.Time             `json:"date"`
	Scores        []RubricScoreResponse `json:"scores"`
}

// NewEvaluationResponse converts an Evaluation model into a DTO.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	scores := make([]RubricScoreResponse, 0, len(model.Scores))
	for _, score := range model.Scores {
		scores = append(scores, RubricScoreResponse{RubricID: score.RubricID, Score: score.Score})
	}

	return EvaluationResponse{
		ID:            model.ID,
		SubjectType:   model.SubjectType,
		SubjectID:     model.SubjectID,
		DeliverableID: model.DeliverableID,
		RaterRole:     string(model.RaterRole),
		RaterID:       model.RaterID,
		Grade:         model.Grade,
		Feedback:      model.Feedback,
		Date:          model.Date,
		Scores:        scores,
	}
}

// EvaluableDeliverable is one deliverable the rater may still evaluate,
// together with the submission that makes it evaluable and the rubrics the
// rater will score against.
type EvaluableDeliverable struct {
	DeliverableID  uint             `json:"deliverable_id"`
	Name           string           `json:"name"`
	SubmissionType string           `json:"submission_type"`
	Weightage      float64          `json:"weightage"`
	SubmissionID   uint             `json:"submission_id"`
	FilePath       string           `json:"file_path"`
	SubmittedAt    time.Time        `json:"submitted_at"`
	Rubrics        []RubricResponse `json:"rubrics"`
}

// Submission display states in the evaluation view.
const (
	ViewStatusNotSubmitted = "Not Submitted"
	ViewStatusSubmitted    = "Submitted"
	ViewStatusEvaluated    = "Evaluated"
)

// DeliverableEvaluationRow is one line of the evaluation view: deliverable
// metadata, submission state, and the requesting rater-role's own grade and
// feedback. Peer raters' evaluations are never included.
type DeliverableEvaluationRow struct {
	DeliverableID  uint       `json:"deliverable_id"`
	Name           string     `json:"name"`
	SubmissionType string     `json:"submission_type"`
	Weightage      float64    `json:"weightage"`
	Status         string     `json:"status"`
	FilePath       string     `json:"file_path,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	Grade          *float64   `json:"evaluation_grade,omitempty"`
	Feedback       string     `json:"feedback,omitempty"`
	EvaluatedAt    *time.Time `json:"evaluated_at,omitempty"`
}

// EvaluationViewResponse is the assembled per-rater, per-subject view.
type EvaluationViewResponse struct {
	Semester    string                     `json:"semester"`
	SubjectType string                     `json:"subject_type"`
	SubjectID   uint                       `json:"subject_id"`
	RaterRole   string                     `json:"rater_role"`
	Rows        []DeliverableEvaluationRow `json:"rows"`
}
