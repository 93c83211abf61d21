package models

import "time"

// Lecturer role codes as stored on the account record. A code describes
// what the lecturer may do, not a single job title: code 3 holds both the
// supervisor and assessor capabilities at once.
const (
	RoleCodeLecturer    = 1
	RoleCodeAssessor    = 2
	RoleCodeBoth        = 3
	RoleCodeSupervisor  = 4
	RoleCodeCoordinator = 5
)

// RaterRole is the capacity a lecturer acts in when grading. Every
// evaluation row is tagged with exactly one of these.
type RaterRole string

// The three rater capacities.
const (
	RaterRoleSupervisor  RaterRole = "supervisor"
	RaterRoleAssessor    RaterRole = "assessor"
	RaterRoleCoordinator RaterRole = "coordinator"
)

// Valid reports whether the value is one of the known rater roles.
func (r RaterRole) Valid() bool {
	switch r {
	case RaterRoleSupervisor, RaterRoleAssessor, RaterRoleCoordinator:
		return true
	}
	return false
}

// Lecturer is a staff account. RoleCode determines which rater roles the
// lecturer may assume when submitting evaluations.
type Lecturer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	RoleCode  int       `gorm:"not null" json:"role_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Capabilities maps a role code to the rater roles it may act as. A plain
// lecturer (code 1) has no rater capability and gets nil.
func Capabilities(roleCode int) []RaterRole {
	switch roleCode {
	case RoleCodeAssessor:
		return []RaterRole{RaterRoleAssessor}
	case RoleCodeBoth:
		return []RaterRole{RaterRoleSupervisor, RaterRoleAssessor}
	case RoleCodeSupervisor:
		return []RaterRole{RaterRoleSupervisor}
	case RoleCodeCoordinator:
		return []RaterRole{RaterRoleCoordinator}
	}
	return nil
}

// CanActAs reports whether the role code grants the given rater role.
func CanActAs(roleCode int, role RaterRole) bool {
	for _, capability := range Capabilities(roleCode) {
		if capability == role {
			return true
		}
	}
	return false
}
