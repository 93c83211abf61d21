package models

import "time"

// ProjectGroup represents a project team and its rater assignments. The
// supervisor and assessor are the only raters bound to a group; the
// coordinator grades system-wide.
type ProjectGroup struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Semester     string    `gorm:"size:16;not null;index" json:"semester"`
	SupervisorID *uint     `gorm:"index" json:"supervisor_id"`
	AssessorID   *uint     `gorm:"index" json:"assessor_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Students     []Student `gorm:"foreignKey:GroupID" json:"students,omitempty"`
}

// AssignedTo reports whether the lecturer holds the given rater role for
// this group. Coordinators bypass assignment checks entirely.
func (g ProjectGroup) AssignedTo(raterID uint, role RaterRole) bool {
	switch role {
	case RaterRoleSupervisor:
		return g.SupervisorID != nil && *g.SupervisorID == raterID
	case RaterRoleAssessor:
		return g.AssessorID != nil && *g.AssessorID == raterID
	case RaterRoleCoordinator:
		return true
	}
	return false
}
