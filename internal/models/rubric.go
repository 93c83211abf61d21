package models

import "time"

// DefaultRubricMaxScore applies when a rubric was stored without an
// explicit maximum.
const DefaultRubricMaxScore = 10

// Rubric is one scoring criterion belonging to a deliverable. Every rubric
// of a deliverable contributes equally to the deliverable's grade; there is
// no per-rubric weight.
type Rubric struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	DeliverableID uint              `gorm:"not null;index" json:"deliverable_id"`
	Criteria      string            `gorm:"size:255;not null" json:"criteria"`
	Component     string            `gorm:"size:255" json:"component"`
	MaxScore      int               `json:"max_score"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	ScoreRanges   []RubricScoreRange `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"score_ranges,omitempty"`
}

// EffectiveMaxScore returns the maximum score, falling back to the default
// when the stored value is zero or negative.
func (r Rubric) EffectiveMaxScore() int {
	if r.MaxScore <= 0 {
		return DefaultRubricMaxScore
	}
	return r.MaxScore
}

// Score range bands used by rubric descriptions.
var ScoreRangeBands = []string{"0-2", "3-4", "5-6", "7-8", "9-10"}

// RubricScoreRange describes what a band of scores means for a rubric. It
// is purely descriptive and never enters grade computation.
type RubricScoreRange struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RubricID    uint   `gorm:"not null;index" json:"rubric_id"`
	ScoreRange  string `gorm:"size:8;not null" json:"score_range"`
	Description string `gorm:"type:text" json:"description"`
}
