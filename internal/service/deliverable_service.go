package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/dto"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/repository"
)

// ErrRubricNotFound indicates the rubric does not exist under the
// deliverable.
var ErrRubricNotFound = errors.New("rubric not found")

// DeliverableService exposes the rubric catalog: reads for every rater and
// coordinator-only catalog management.
type DeliverableService interface {
	List(ctx context.Context, filter dto.DeliverableFilter) ([]dto.DeliverableResponse, error)
	Get(ctx context.Context, id uint) (dto.DeliverableResponse, error)
	Create(ctx context.Context, payload dto.DeliverableCreateRequest) (dto.DeliverableResponse, error)
	Update(ctx context.Context, id uint, payload dto.DeliverableUpdateRequest) (dto.DeliverableResponse, error)
	Delete(ctx context.Context, id uint) error
	AddRubric(ctx context.Context, deliverableID uint, payload dto.RubricCreateRequest) (dto.RubricResponse, error)
	DeleteRubric(ctx context.Context, deliverableID, rubricID uint) error
}

type deliverableService struct {
	deliverables repository.DeliverableRepository
	rubrics      repository.RubricRepository
	evaluations  repository.EvaluationRepository
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewDeliverableService builds the catalog service.
func NewDeliverableService(
	deliverables repository.DeliverableRepository,
	rubrics repository.RubricRepository,
	evaluations repository.EvaluationRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) DeliverableService {
	return &deliverableService{
		deliverables: deliverables,
		rubrics:      rubrics,
		evaluations:  evaluations,
		validator:    validate,
		logger:       logger.With().Str("component", "deliverable_service").Logger(),
	}
}

func (s *deliverableService) List(ctx context.Context, filter dto.DeliverableFilter) ([]dto.DeliverableResponse, error) {
	deliverables, err := s.deliverables.List(ctx, repository.DeliverableFilter{
		Semester:       filter.Semester,
		SubmissionType: filter.SubmissionType,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewDeliverableResponseSlice(deliverables), nil
}

func (s *deliverableService) Get(ctx context.Context, id uint) (dto.DeliverableResponse, error) {
	deliverable, err := s.deliverables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeliverableResponse{}, ErrDeliverableNotFound
		}
		return dto.DeliverableResponse{}, err
	}

	return dto.NewDeliverableResponse(deliverable), nil
}

func (s *deliverableService) Create(ctx context.Context, payload dto.DeliverableCreateRequest) (dto.DeliverableResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DeliverableResponse{}, err
	}

	deliverable := models.Deliverable{
		Name:           payload.Name,
		Semester:       payload.Semester,
		SubmissionType: payload.SubmissionType,
		Weightage:      payload.Weightage,
	}

	if err := s.deliverables.Create(ctx, &deliverable); err != nil {
		return dto.DeliverableResponse{}, err
	}

	s.logger.Info().Uint("deliverable_id", deliverable.ID).Msg("deliverable created")

	return dto.NewDeliverableResponse(deliverable), nil
}

func (s *deliverableService) Update(ctx context.Context, id uint, payload dto.DeliverableUpdateRequest) (dto.DeliverableResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DeliverableResponse{}, err
	}

	deliverable, err := s.deliverables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeliverableResponse{}, ErrDeliverableNotFound
		}
		return dto.DeliverableResponse{}, err
	}

	regradeRequired := false
	if payload.Weightage != nil && *payload.Weightage != deliverable.Weightage {
		count, err := s.evaluations.CountByDeliverable(ctx, id)
		if err != nil {
			return dto.DeliverableResponse{}, err
		}
		if count > 0 {
			// Existing grades were computed against the old weightage and
			// will not match the new one until raters resubmit.
			regradeRequired = true
			s.logger.Warn().
				Uint("deliverable_id", id).
				Float64("old_weightage", deliverable.Weightage).
				Float64("new_weightage", *payload.Weightage).
				Int64("evaluations", count).
				Msg("weightage changed after evaluations exist")
		}
		deliverable.Weightage = *payload.Weightage
	}

	if payload.Name != nil {
		deliverable.Name = *payload.Name
	}

	if err := s.deliverables.Update(ctx, &deliverable); err != nil {
		return dto.DeliverableResponse{}, err
	}

	response := dto.NewDeliverableResponse(deliverable)
	response.RegradeRequired = regradeRequired

	return response, nil
}

func (s *deliverableService) Delete(ctx context.Context, id uint) error {
	if err := s.deliverables.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeliverableNotFound
		}
		return err
	}

	return nil
}

func (s *deliverableService) AddRubric(ctx context.Context, deliverableID uint, payload dto.RubricCreateRequest) (dto.RubricResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RubricResponse{}, err
	}

	if _, err := s.deliverables.GetByID(ctx, deliverableID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RubricResponse{}, ErrDeliverableNotFound
		}
		return dto.RubricResponse{}, err
	}

	rubric := models.Rubric{
		DeliverableID: deliverableID,
		Criteria:      payload.Criteria,
		Component:     payload.Component,
		MaxScore:      payload.MaxScore,
	}
	for _, band := range payload.ScoreRanges {
		rubric.ScoreRanges = append(rubric.ScoreRanges, models.RubricScoreRange{
			ScoreRange:  band.ScoreRange,
			Description: band.Description,
		})
	}

	if err := s.rubrics.Create(ctx, &rubric); err != nil {
		return dto.RubricResponse{}, err
	}

	s.logger.Info().Uint("rubric_id", rubric.ID).Uint("deliverable_id", deliverableID).Msg("rubric created")

	return dto.NewRubricResponse(rubric), nil
}

func (s *deliverableService) DeleteRubric(ctx context.Context, deliverableID, rubricID uint) error {
	rubric, err := s.rubrics.GetByID(ctx, rubricID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRubricNotFound
		}
		return err
	}

	if rubric.DeliverableID != deliverableID {
		return ErrRubricNotFound
	}

	return s.rubrics.Delete(ctx, rubricID)
}
