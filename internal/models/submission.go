package models

import "time"

// Submission represents a file handed in for a deliverable, by a student
// (individual deliverables) or a project group (group deliverables). A nil
// SubmittedAt means the row was provisioned but nothing was handed in; such
// submissions are never evaluable.
type Submission struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	DeliverableID uint        `gorm:"not null;index" json:"deliverable_id"`
	StudentID     *uint       `gorm:"index" json:"student_id"`
	GroupID       *uint       `gorm:"index" json:"group_id"`
	FilePath      string      `gorm:"size:512" json:"file_path"`
	SubmittedAt   *time.Time  `json:"submitted_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Deliverable   Deliverable `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"deliverable"`
}

// IsSubmitted reports whether a file was actually handed in.
func (s Submission) IsSubmitted() bool {
	return s.SubmittedAt != nil
}
