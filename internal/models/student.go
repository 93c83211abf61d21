package models

import "time"

// Student represents a student enrolled in the FYP course.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	MatricNo  string    `gorm:"size:32" json:"matric_no"`
	Semester  string    `gorm:"size:16;not null;index" json:"semester"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
