package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/dto"
	"github.com/noah-isme/fyp-go-api/internal/grading"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/repository"
)

// ErrDeliverableNotFound indicates the deliverable does not exist.
var ErrDeliverableNotFound = errors.New("deliverable not found")

// ErrEmptyFeedback indicates the feedback text was empty once sanitized.
var ErrEmptyFeedback = errors.New("feedback must not be empty")

// ErrPersistence indicates the evaluation could not be saved; the
// transaction was rolled back and the submission is safe to retry.
var ErrPersistence = errors.New("evaluation could not be saved")

// ViewInvalidator drops cached evaluation views for a subject after its
// state changes.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, subjectType string, subjectID uint, semester string)
}

// EvaluationService orchestrates one rater's grading of one deliverable:
// eligibility, grade computation, and atomic persistence.
type EvaluationService interface {
	Submit(ctx context.Context, rater Rater, payload dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error)
}

type evaluationService struct {
	deliverables repository.DeliverableRepository
	evaluations  repository.EvaluationRepository
	audits       repository.AuditRepository
	eligibility  EligibilityService
	views        ViewInvalidator
	events       GradeEventPublisher
	validator    *validator.Validate
	sanitizer    *bluemonday.Policy
	tracer       trace.Tracer
	logger       zerolog.Logger
	now          func() time.Time
}

// NewEvaluationService constructs the evaluation submit workflow. The audit
// repository, view invalidator and event publisher are optional.
func NewEvaluationService(
	deliverables repository.DeliverableRepository,
	evaluations repository.EvaluationRepository,
	audits repository.AuditRepository,
	eligibility EligibilityService,
	views ViewInvalidator,
	events GradeEventPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) EvaluationService {
	return &evaluationService{
		deliverables: deliverables,
		evaluations:  evaluations,
		audits:       audits,
		eligibility:  eligibility,
		views:        views,
		events:       events,
		validator:    validate,
		sanitizer:    bluemonday.StrictPolicy(),
		tracer:       otel.Tracer("github.com/noah-isme/fyp-go-api/internal/service/evaluation"),
		logger:       logger.With().Str("component", "evaluation_service").Logger(),
		now:          time.Now,
	}
}

func (s *evaluationService) Submit(ctx context.Context, rater Rater, payload dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.submit", trace.WithAttributes(
		attribute.Int64("evaluation.rater_id", int64(rater.ID)),
		attribute.String("evaluation.rater_role", string(rater.Role)),
		attribute.Int64("evaluation.deliverable_id", int64(payload.DeliverableID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))
	if feedback == "" {
		span.SetStatus(codes.Error, "empty_feedback")
		return dto.EvaluationResponse{}, ErrEmptyFeedback
	}

	deliverable, err := s.deliverables.GetByID(ctx, payload.DeliverableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "deliverable_not_found")
			return dto.EvaluationResponse{}, ErrDeliverableNotFound
		}
		span.RecordError(err)
		return dto.EvaluationResponse{}, err
	}

	// All eligibility and score validation happens before the storage
	// transaction opens; only persistence faults occur inside it. A prior
	// evaluation by the same rater role is not a refusal: it marks the
	// regrade path, and the upsert below replaces it wholesale.
	regrade := false
	if _, err := s.eligibility.CheckEvaluable(ctx, rater, payload.StudentID, payload.GroupID, deliverable); err != nil {
		if !errors.Is(err, ErrAlreadyEvaluated) {
			span.SetStatus(codes.Error, "not_eligible")
			return dto.EvaluationResponse{}, err
		}
		regrade = true
	}

	grade, err := grading.Compute(deliverable.Rubrics, payload.Scores, deliverable.Weightage)
	if err != nil {
		span.SetStatus(codes.Error, "invalid_scores")
		return dto.EvaluationResponse{}, err
	}

	subjectType := models.SubjectTypeGroup
	subjectID := payload.GroupID
	if deliverable.IsIndividual() {
		subjectType = models.SubjectTypeIndividual
		subjectID = *payload.StudentID
	}

	evaluation := models.Evaluation{
		SubjectType:   subjectType,
		SubjectID:     subjectID,
		DeliverableID: deliverable.ID,
		RaterRole:     rater.Role,
		RaterID:       rater.ID,
		Grade:         grade,
		Feedback:      feedback,
		Date:          s.now().UTC(),
	}

	scores := make([]models.EvaluationRubricScore, 0, len(deliverable.Rubrics))
	for _, rubric := range deliverable.Rubrics {
		scores = append(scores, models.EvaluationRubricScore{
			RubricID: rubric.ID,
			Score:    payload.Scores[rubric.ID],
		})
	}

	if err := s.evaluations.Replace(ctx, &evaluation, scores); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence_failed")
		s.logger.Error().Err(err).
			Uint("deliverable_id", deliverable.ID).
			Uint("subject_id", subjectID).
			Str("rater_role", string(rater.Role)).
			Msg("failed to persist evaluation")
		return dto.EvaluationResponse{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	evaluation.Scores = scores

	if s.audits != nil {
		action := models.ActionEvaluationGraded
		if regrade {
			action = models.ActionEvaluationRegraded
		}
		entry := models.AuditLog{
			ActorID:    rater.ID,
			ActorRole:  string(rater.Role),
			Action:     action,
			EntityType: "evaluation",
			EntityID:   &evaluation.ID,
			Metadata: map[string]interface{}{
				"subject_type":     subjectType,
				"subject_id":       subjectID,
				"deliverable_id":   deliverable.ID,
				"evaluation_grade": grade,
			},
		}
		if err := s.audits.Create(ctx, &entry); err != nil {
			s.logger.Warn().Err(err).Uint("evaluation_id", evaluation.ID).Msg("failed to record grading audit entry")
		}
	}

	if s.views != nil {
		s.views.Invalidate(ctx, subjectType, subjectID, deliverable.Semester)
	}

	if s.events != nil {
		_ = s.events.PublishGraded(ctx, GradeEvent{
			SubjectType:   subjectType,
			SubjectID:     subjectID,
			DeliverableID: deliverable.ID,
			RaterRole:     string(rater.Role),
			RaterID:       rater.ID,
			Grade:         grade,
			SentAt:        s.now().UTC(),
		})
	}

	span.SetAttributes(
		attribute.Float64("evaluation.grade", grade),
		attribute.Bool("evaluation.regrade", regrade),
	)
	s.logger.Info().
		Uint("evaluation_id", evaluation.ID).
		Uint("deliverable_id", deliverable.ID).
		Str("rater_role", string(rater.Role)).
		Float64("grade", grade).
		Bool("regrade", regrade).
		Msg("evaluation persisted")

	return dto.NewEvaluationResponse(evaluation), nil
}
