package dto

import "github.com/noah-isme/fyp-go-api/internal/models"

// AssignedGroupsQuery describes query string parameters for listing the
// project groups a rater is assigned to grade.
type AssignedGroupsQuery struct {
	RaterRole string `query:"rater_role" validate:"required,oneof=supervisor assessor coordinator"`
	Semester  string `query:"semester" validate:"omitempty,max=16"`
}

// StudentResponse is one member of a project group.
type StudentResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	MatricNo string `json:"matric_no"`
}

// GroupResponse is one project group in the rater's assignment listing.
type GroupResponse struct {
	ID       uint              `json:"id"`
	Name     string            `json:"name"`
	Semester string            `json:"semester"`
	Students []StudentResponse `json:"students"`
}

// NewGroupResponse converts a ProjectGroup model into a DTO.
func NewGroupResponse(model models.ProjectGroup) GroupResponse {
	students := make([]StudentResponse, 0, len(model.Students))
	for _, student := range model.Students {
		students = append(students, StudentResponse{
			ID:       student.ID,
			Name:     student.Name,
			Email:    student.Email,
			MatricNo: student.MatricNo,
		})
	}

	return GroupResponse{
		ID:       model.ID,
		Name:     model.Name,
		Semester: model.Semester,
		Students: students,
	}
}

// NewGroupResponseSlice converts a slice of ProjectGroup models.
func NewGroupResponseSlice(groups []models.ProjectGroup) []GroupResponse {
	responses := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, NewGroupResponse(group))
	}

	return responses
}
