package models

import "time"

// Subject kinds discriminating who an evaluation targets.
const (
	// SubjectTypeIndividual targets a single student.
	SubjectTypeIndividual = "Individual"
	// SubjectTypeGroup targets a project group.
	SubjectTypeGroup = "Group"
)

// Evaluation is one rater-role's grading of one subject for one
// deliverable. Supervisor, assessor and coordinator ratings of the same
// subject/deliverable coexist as independent rows; the composite unique
// index guarantees at most one row per (subject, deliverable, rater role).
type Evaluation struct {
	ID            uint                    `gorm:"primaryKey" json:"id"`
	SubjectType   string                  `gorm:"size:16;not null;uniqueIndex:idx_eval_subject_role" json:"subject_type"`
	SubjectID     uint                    `gorm:"not null;uniqueIndex:idx_eval_subject_role" json:"subject_id"`
	DeliverableID uint                    `gorm:"not null;uniqueIndex:idx_eval_subject_role" json:"deliverable_id"`
	RaterRole     RaterRole               `gorm:"size:16;not null;uniqueIndex:idx_eval_subject_role" json:"rater_role"`
	RaterID       uint                    `gorm:"not null;index" json:"rater_id"`
	Grade         float64                 `gorm:"column:evaluation_grade;not null" json:"evaluation_grade"`
	Feedback      string                  `gorm:"type:text;not null" json:"feedback"`
	Date          time.Time               `gorm:"not null" json:"date"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	Scores        []EvaluationRubricScore `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"scores,omitempty"`
}

// EvaluationRubricScore is a child row recording the raw score given for
// one rubric within an evaluation. Child rows live and die with their
// parent evaluation.
type EvaluationRubricScore struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	EvaluationID uint `gorm:"not null;index" json:"evaluation_id"`
	RubricID     uint `gorm:"not null;index" json:"rubric_id"`
	Score        int  `gorm:"not null" json:"score"`
}
