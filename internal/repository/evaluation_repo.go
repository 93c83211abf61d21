package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/fyp-go-api/internal/models"
)

// SubjectKey identifies the target of an evaluation.
type SubjectKey struct {
	SubjectType string
	SubjectID   uint
}

// EvaluationRepository defines data operations for evaluations and their
// rubric score child rows.
type EvaluationRepository interface {
	Get(ctx context.Context, subject SubjectKey, deliverableID uint, role models.RaterRole) (models.Evaluation, error)
	ListBySubject(ctx context.Context, subject SubjectKey, role models.RaterRole) ([]models.Evaluation, error)
	CountByDeliverable(ctx context.Context, deliverableID uint) (int64, error)
	Replace(ctx context.Context, evaluation *models.Evaluation, scores []models.EvaluationRubricScore) error
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Get(ctx context.Context, subject SubjectKey, deliverableID uint, role models.RaterRole) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("subject_type = ? AND subject_id = ? AND deliverable_id = ? AND rater_role = ?",
			subject.SubjectType, subject.SubjectID, deliverableID, role).
		First(&evaluation).Error; err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (r *evaluationRepository) ListBySubject(ctx context.Context, subject SubjectKey, role models.RaterRole) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	if err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("subject_type = ? AND subject_id = ? AND rater_role = ?",
			subject.SubjectType, subject.SubjectID, role).
		Order("deliverable_id ASC").
		Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}

func (r *evaluationRepository) CountByDeliverable(ctx context.Context, deliverableID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("deliverable_id = ?", deliverableID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Replace persists an evaluation atomically: the evaluation row is
// upserted on its (subject, deliverable, rater role) uniqueness key and
// the child rubric score set is replaced wholesale. A failure at any step
// rolls the whole transaction back, so readers observe either the prior
// evaluation intact or the new one fully formed.
func (r *evaluationRepository) Replace(ctx context.Context, evaluation *models.Evaluation, scores []models.EvaluationRubricScore) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		onConflict := clause.OnConflict{
			Columns: []clause.Column{
				{Name: "subject_type"},
				{Name: "subject_id"},
				{Name: "deliverable_id"},
				{Name: "rater_role"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"rater_id", "evaluation_grade", "feedback", "date", "updated_at"}),
		}

		if err := tx.Omit(clause.Associations).Clauses(onConflict).Create(evaluation).Error; err != nil {
			return err
		}

		// The conflict-update path does not report the surviving row id on
		// every driver, so resolve it explicitly.
		var existing models.Evaluation
		if err := tx.Select("id").
			Where("subject_type = ? AND subject_id = ? AND deliverable_id = ? AND rater_role = ?",
				evaluation.SubjectType, evaluation.SubjectID, evaluation.DeliverableID, evaluation.RaterRole).
			First(&existing).Error; err != nil {
			return err
		}
		evaluation.ID = existing.ID

		if err := tx.Where("evaluation_id = ?", evaluation.ID).
			Delete(&models.EvaluationRubricScore{}).Error; err != nil {
			return err
		}

		for i := range scores {
			scores[i].ID = 0
			scores[i].EvaluationID = evaluation.ID
		}

		if len(scores) > 0 {
			if err := tx.Create(&scores).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
