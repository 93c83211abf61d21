package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/models"
)

// GroupRepository defines read operations over project groups and their
// members.
type GroupRepository interface {
	GetByID(ctx context.Context, id uint) (models.ProjectGroup, error)
	GetStudent(ctx context.Context, id uint) (models.Student, error)
	ListAssigned(ctx context.Context, raterID uint, role models.RaterRole, semester string) ([]models.ProjectGroup, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository instantiates the repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (models.ProjectGroup, error) {
	var group models.ProjectGroup
	if err := r.db.WithContext(ctx).Preload("Students").First(&group, id).Error; err != nil {
		return models.ProjectGroup{}, err
	}

	return group, nil
}

func (r *groupRepository) GetStudent(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *groupRepository) ListAssigned(ctx context.Context, raterID uint, role models.RaterRole, semester string) ([]models.ProjectGroup, error) {
	query := r.db.WithContext(ctx).Model(&models.ProjectGroup{}).Preload("Students")

	if semester != "" {
		query = query.Where("semester = ?", semester)
	}

	switch role {
	case models.RaterRoleSupervisor:
		query = query.Where("supervisor_id = ?", raterID)
	case models.RaterRoleAssessor:
		query = query.Where("assessor_id = ?", raterID)
	case models.RaterRoleCoordinator:
		// Coordinators see every group in the semester.
	}

	var groups []models.ProjectGroup
	if err := query.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}

	return groups, nil
}
