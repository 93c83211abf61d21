package models

import "time"

// Submission types for a deliverable.
const (
	// SubmissionTypeIndividual means each student submits and is graded alone.
	SubmissionTypeIndividual = "individual"
	// SubmissionTypeGroup means the project group submits and is graded as one.
	SubmissionTypeGroup = "group"
)

// Deliverable represents a gradable unit of coursework with a percentage
// weight toward the final component grade.
type Deliverable struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Semester       string    `gorm:"size:16;not null;index" json:"semester"`
	SubmissionType string    `gorm:"size:16;not null" json:"submission_type"`
	Weightage      float64   `gorm:"not null" json:"weightage"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Rubrics        []Rubric  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rubrics,omitempty"`
}

// IsIndividual reports whether the deliverable is submitted per student.
func (d Deliverable) IsIndividual() bool {
	return d.SubmissionType == SubmissionTypeIndividual
}

// IsGroup reports whether the deliverable is submitted per project group.
func (d Deliverable) IsGroup() bool {
	return d.SubmissionType == SubmissionTypeGroup
}
