package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/models"
)

// SubmissionFilter narrows submission queries.
type SubmissionFilter struct {
	DeliverableID *uint
	StudentID     *uint
	GroupID       *uint
	SubmittedOnly bool
}

// SubmissionRepository defines read operations over handed-in work. The
// submission lifecycle itself (upload, provisioning) belongs to the
// surrounding platform.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetForSubject(ctx context.Context, deliverableID uint, studentID, groupID *uint) (models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.DeliverableID != nil {
		query = query.Where("deliverable_id = ?", *filter.DeliverableID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}

	if filter.SubmittedOnly {
		query = query.Where("submitted_at IS NOT NULL")
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetForSubject(ctx context.Context, deliverableID uint, studentID, groupID *uint) (models.Submission, error) {
	query := r.db.WithContext(ctx).Where("deliverable_id = ?", deliverableID)

	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}

	if groupID != nil {
		query = query.Where("group_id = ?", *groupID)
	}

	var submission models.Submission
	if err := query.Order("created_at DESC").First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}
