package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/dto"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/repository"
)

// ErrSubjectRequired indicates the view query named neither a student nor a
// group.
var ErrSubjectRequired = errors.New("either student_id or group_id is required")

// EvaluationViewService assembles the "all deliverables vs. their current
// evaluation state" view for one rater and one subject. Each rater sees
// only their own role's ratings.
type EvaluationViewService interface {
	GetView(ctx context.Context, rater Rater, query dto.EvaluationViewQuery) (dto.EvaluationViewResponse, error)
	Invalidate(ctx context.Context, subjectType string, subjectID uint, semester string)
}

type evaluationViewService struct {
	deliverables repository.DeliverableRepository
	submissions  repository.SubmissionRepository
	evaluations  repository.EvaluationRepository
	groups       repository.GroupRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// NewEvaluationViewService builds the view facade. The redis client is
// optional; without it every read goes to the database.
func NewEvaluationViewService(
	deliverables repository.DeliverableRepository,
	submissions repository.SubmissionRepository,
	evaluations repository.EvaluationRepository,
	groups repository.GroupRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) EvaluationViewService {
	return &evaluationViewService{
		deliverables: deliverables,
		submissions:  submissions,
		evaluations:  evaluations,
		groups:       groups,
		cache:        cache,
		cacheTTL:     ttl,
		logger:       logger.With().Str("component", "evaluation_view_service").Logger(),
	}
}

func viewCacheKey(role models.RaterRole, subjectType string, subjectID uint, semester string) string {
	return fmt.Sprintf("evalview:%s:%s:%d:%s", role, subjectType, subjectID, semester)
}

func (s *evaluationViewService) GetView(ctx context.Context, rater Rater, query dto.EvaluationViewQuery) (dto.EvaluationViewResponse, error) {
	subject, submissionType, err := s.resolveViewSubject(ctx, rater, query)
	if err != nil {
		return dto.EvaluationViewResponse{}, err
	}

	cacheKey := viewCacheKey(rater.Role, subject.SubjectType, subject.SubjectID, query.Semester)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.EvaluationViewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("evaluation view cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read evaluation view cache")
		}
	}

	filter := repository.DeliverableFilter{Semester: &query.Semester, SubmissionType: &submissionType}
	deliverables, err := s.deliverables.List(ctx, filter)
	if err != nil {
		return dto.EvaluationViewResponse{}, err
	}

	submissionFilter := repository.SubmissionFilter{StudentID: query.StudentID, GroupID: query.GroupID}
	if subject.SubjectType == models.SubjectTypeIndividual {
		submissionFilter.StudentID = &subject.SubjectID
	}
	submissions, err := s.submissions.List(ctx, submissionFilter)
	if err != nil {
		return dto.EvaluationViewResponse{}, err
	}

	submissionByDeliverable := map[uint]models.Submission{}
	for _, submission := range submissions {
		if _, exists := submissionByDeliverable[submission.DeliverableID]; !exists {
			submissionByDeliverable[submission.DeliverableID] = submission
		}
	}

	evaluations, err := s.evaluations.ListBySubject(ctx, subject, rater.Role)
	if err != nil {
		return dto.EvaluationViewResponse{}, err
	}

	evaluationByDeliverable := map[uint]models.Evaluation{}
	for _, evaluation := range evaluations {
		evaluationByDeliverable[evaluation.DeliverableID] = evaluation
	}

	rows := make([]dto.DeliverableEvaluationRow, 0, len(deliverables))
	for _, deliverable := range deliverables {
		row := dto.DeliverableEvaluationRow{
			DeliverableID:  deliverable.ID,
			Name:           deliverable.Name,
			SubmissionType: deliverable.SubmissionType,
			Weightage:      deliverable.Weightage,
			Status:         dto.ViewStatusNotSubmitted,
		}

		if submission, ok := submissionByDeliverable[deliverable.ID]; ok && submission.IsSubmitted() {
			row.Status = dto.ViewStatusSubmitted
			row.FilePath = submission.FilePath
			row.SubmittedAt = submission.SubmittedAt
		}

		if evaluation, ok := evaluationByDeliverable[deliverable.ID]; ok {
			grade := evaluation.Grade
			evaluatedAt := evaluation.Date
			row.Status = dto.ViewStatusEvaluated
			row.Grade = &grade
			row.Feedback = evaluation.Feedback
			row.EvaluatedAt = &evaluatedAt
		}

		rows = append(rows, row)
	}

	response := dto.EvaluationViewResponse{
		Semester:    query.Semester,
		SubjectType: subject.SubjectType,
		SubjectID:   subject.SubjectID,
		RaterRole:   string(rater.Role),
		Rows:        rows,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store evaluation view cache")
			}
		}
	}

	return response, nil
}

// Invalidate drops cached views for the subject across all rater roles.
// The submitting role's peers keep independent ratings, but their cached
// views embed the shared submission state, so all three are dropped.
func (s *evaluationViewService) Invalidate(ctx context.Context, subjectType string, subjectID uint, semester string) {
	if s.cache == nil {
		return
	}

	keys := []string{
		viewCacheKey(models.RaterRoleSupervisor, subjectType, subjectID, semester),
		viewCacheKey(models.RaterRoleAssessor, subjectType, subjectID, semester),
		viewCacheKey(models.RaterRoleCoordinator, subjectType, subjectID, semester),
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate evaluation view cache")
	}
}

func (s *evaluationViewService) resolveViewSubject(ctx context.Context, rater Rater, query dto.EvaluationViewQuery) (repository.SubjectKey, string, error) {
	switch {
	case query.StudentID != nil:
		student, err := s.groups.GetStudent(ctx, *query.StudentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.SubjectKey{}, "", ErrStudentNotInGroup
			}
			return repository.SubjectKey{}, "", err
		}

		if rater.Role != models.RaterRoleCoordinator {
			if student.GroupID == nil {
				return repository.SubjectKey{}, "", ErrNotAssigned
			}
			if err := s.checkGroupAssignment(ctx, rater, *student.GroupID); err != nil {
				return repository.SubjectKey{}, "", err
			}
		}

		return repository.SubjectKey{SubjectType: models.SubjectTypeIndividual, SubjectID: student.ID}, models.SubmissionTypeIndividual, nil

	case query.GroupID != nil:
		if rater.Role != models.RaterRoleCoordinator {
			if err := s.checkGroupAssignment(ctx, rater, *query.GroupID); err != nil {
				return repository.SubjectKey{}, "", err
			}
		}

		return repository.SubjectKey{SubjectType: models.SubjectTypeGroup, SubjectID: *query.GroupID}, models.SubmissionTypeGroup, nil

	default:
		return repository.SubjectKey{}, "", ErrSubjectRequired
	}
}

func (s *evaluationViewService) checkGroupAssignment(ctx context.Context, rater Rater, groupID uint) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	if !group.AssignedTo(rater.ID, rater.Role) {
		return ErrNotAssigned
	}

	return nil
}
