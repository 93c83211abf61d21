package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/models"
)

// DeliverableFilter narrows deliverable queries.
type DeliverableFilter struct {
	Semester       *string
	SubmissionType *string
}

// DeliverableRepository defines data operations for the rubric catalog.
type DeliverableRepository interface {
	List(ctx context.Context, filter DeliverableFilter) ([]models.Deliverable, error)
	GetByID(ctx context.Context, id uint) (models.Deliverable, error)
	Create(ctx context.Context, deliverable *models.Deliverable) error
	Update(ctx context.Context, deliverable *models.Deliverable) error
	Delete(ctx context.Context, id uint) error
}

type deliverableRepository struct {
	db *gorm.DB
}

// NewDeliverableRepository instantiates the repository.
func NewDeliverableRepository(db *gorm.DB) DeliverableRepository {
	return &deliverableRepository{db: db}
}

func (r *deliverableRepository) List(ctx context.Context, filter DeliverableFilter) ([]models.Deliverable, error) {
	query := r.db.WithContext(ctx).Model(&models.Deliverable{}).Preload("Rubrics")

	if filter.Semester != nil {
		query = query.Where("semester = ?", *filter.Semester)
	}

	if filter.SubmissionType != nil {
		query = query.Where("submission_type = ?", *filter.SubmissionType)
	}

	var deliverables []models.Deliverable
	if err := query.Order("name ASC").Find(&deliverables).Error; err != nil {
		return nil, err
	}

	return deliverables, nil
}

func (r *deliverableRepository) GetByID(ctx context.Context, id uint) (models.Deliverable, error) {
	var deliverable models.Deliverable
	if err := r.db.WithContext(ctx).
		Preload("Rubrics").
		Preload("Rubrics.ScoreRanges").
		First(&deliverable, id).Error; err != nil {
		return models.Deliverable{}, err
	}

	return deliverable, nil
}

func (r *deliverableRepository) Create(ctx context.Context, deliverable *models.Deliverable) error {
	return r.db.WithContext(ctx).Create(deliverable).Error
}

func (r *deliverableRepository) Update(ctx context.Context, deliverable *models.Deliverable) error {
	return r.db.WithContext(ctx).Save(deliverable).Error
}

func (r *deliverableRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Deliverable{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
