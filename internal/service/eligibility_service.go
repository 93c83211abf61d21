package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/dto"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/repository"
)

// ErrGroupNotFound indicates the referenced project group does not exist.
var ErrGroupNotFound = errors.New("project group not found")

// ErrStudentNotInGroup indicates the student does not belong to the
// referenced project group.
var ErrStudentNotInGroup = errors.New("student is not a member of the group")

// ErrNotAssigned indicates the rater is not assigned to the group in the
// requested role. Coordinators are never subject to this check.
var ErrNotAssigned = errors.New("rater is not assigned to this group")

// ErrSubjectMismatch indicates the subject reference does not match the
// deliverable's submission type (e.g. a student id for a group deliverable).
var ErrSubjectMismatch = errors.New("subject does not match the deliverable submission type")

// ErrNotSubmitted indicates no handed-in submission exists for the subject
// and deliverable.
var ErrNotSubmitted = errors.New("deliverable has not been submitted")

// ErrAlreadyEvaluated indicates this rater role already graded the subject
// for the deliverable. Listings exclude such deliverables; a submit treats
// this as the regrade path and replaces the prior evaluation.
var ErrAlreadyEvaluated = errors.New("deliverable already evaluated by this rater role")

// Rater is the acting grading identity: who is grading and in which
// capacity.
type Rater struct {
	ID   uint
	Role models.RaterRole
}

// EligibilityService determines which deliverables a rater may still
// evaluate for a subject. It is read-only; storage faults surface as
// errors and are never conflated with "nothing to grade".
type EligibilityService interface {
	ListAssignedGroups(ctx context.Context, rater Rater, semester string) ([]dto.GroupResponse, error)
	ListEvaluable(ctx context.Context, rater Rater, query dto.EvaluableQuery) ([]dto.EvaluableDeliverable, error)
	CheckEvaluable(ctx context.Context, rater Rater, studentID *uint, groupID uint, deliverable models.Deliverable) (models.Submission, error)
}

type eligibilityService struct {
	deliverables repository.DeliverableRepository
	submissions  repository.SubmissionRepository
	evaluations  repository.EvaluationRepository
	groups       repository.GroupRepository
	logger       zerolog.Logger
}

// NewEligibilityService builds the eligibility resolver.
func NewEligibilityService(
	deliverables repository.DeliverableRepository,
	submissions repository.SubmissionRepository,
	evaluations repository.EvaluationRepository,
	groups repository.GroupRepository,
	logger zerolog.Logger,
) EligibilityService {
	return &eligibilityService{
		deliverables: deliverables,
		submissions:  submissions,
		evaluations:  evaluations,
		groups:       groups,
		logger:       logger.With().Str("component", "eligibility_service").Logger(),
	}
}

// ListAssignedGroups returns the project groups the rater grades in the
// given role: supervised or assessed groups for those roles, every group in
// the semester for coordinators.
func (s *eligibilityService) ListAssignedGroups(ctx context.Context, rater Rater, semester string) ([]dto.GroupResponse, error) {
	groups, err := s.groups.ListAssigned(ctx, rater.ID, rater.Role, semester)
	if err != nil {
		return nil, err
	}

	return dto.NewGroupResponseSlice(groups), nil
}

func (s *eligibilityService) ListEvaluable(ctx context.Context, rater Rater, query dto.EvaluableQuery) ([]dto.EvaluableDeliverable, error) {
	group, err := s.authorizedGroup(ctx, rater, query.GroupID)
	if err != nil {
		return nil, err
	}

	subject, submissionType, err := s.resolveSubject(ctx, query.StudentID, group)
	if err != nil {
		return nil, err
	}

	filter := repository.DeliverableFilter{Semester: &query.Semester, SubmissionType: &submissionType}
	deliverables, err := s.deliverables.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	submissionFilter := repository.SubmissionFilter{
		StudentID:     query.StudentID,
		GroupID:       &query.GroupID,
		SubmittedOnly: true,
	}
	submissions, err := s.submissions.List(ctx, submissionFilter)
	if err != nil {
		return nil, err
	}

	submissionByDeliverable := map[uint]models.Submission{}
	for _, submission := range submissions {
		if _, exists := submissionByDeliverable[submission.DeliverableID]; !exists {
			submissionByDeliverable[submission.DeliverableID] = submission
		}
	}

	evaluations, err := s.evaluations.ListBySubject(ctx, subject, rater.Role)
	if err != nil {
		return nil, err
	}

	evaluated := map[uint]struct{}{}
	for _, evaluation := range evaluations {
		evaluated[evaluation.DeliverableID] = struct{}{}
	}

	evaluable := make([]dto.EvaluableDeliverable, 0, len(deliverables))
	for _, deliverable := range deliverables {
		if _, done := evaluated[deliverable.ID]; done {
			continue
		}

		submission, submitted := submissionByDeliverable[deliverable.ID]
		if !submitted || !submission.IsSubmitted() {
			continue
		}

		evaluable = append(evaluable, dto.EvaluableDeliverable{
			DeliverableID:  deliverable.ID,
			Name:           deliverable.Name,
			SubmissionType: deliverable.SubmissionType,
			Weightage:      deliverable.Weightage,
			SubmissionID:   submission.ID,
			FilePath:       submission.FilePath,
			SubmittedAt:    *submission.SubmittedAt,
			Rubrics:        dto.NewRubricResponseSlice(deliverable.Rubrics),
		})
	}

	return evaluable, nil
}

func (s *eligibilityService) CheckEvaluable(ctx context.Context, rater Rater, studentID *uint, groupID uint, deliverable models.Deliverable) (models.Submission, error) {
	group, err := s.authorizedGroup(ctx, rater, groupID)
	if err != nil {
		return models.Submission{}, err
	}

	if deliverable.IsIndividual() != (studentID != nil) {
		return models.Submission{}, ErrSubjectMismatch
	}

	subject, _, err := s.resolveSubject(ctx, studentID, group)
	if err != nil {
		return models.Submission{}, err
	}

	submission, err := s.submissions.GetForSubject(ctx, deliverable.ID, studentID, &groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrNotSubmitted
		}
		return models.Submission{}, err
	}

	if !submission.IsSubmitted() {
		return models.Submission{}, ErrNotSubmitted
	}

	_, err = s.evaluations.Get(ctx, subject, deliverable.ID, rater.Role)
	switch {
	case err == nil:
		return models.Submission{}, ErrAlreadyEvaluated
	case errors.Is(err, gorm.ErrRecordNotFound):
		return submission, nil
	default:
		return models.Submission{}, err
	}
}

func (s *eligibilityService) authorizedGroup(ctx context.Context, rater Rater, groupID uint) (models.ProjectGroup, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProjectGroup{}, ErrGroupNotFound
		}
		return models.ProjectGroup{}, err
	}

	if !group.AssignedTo(rater.ID, rater.Role) {
		return models.ProjectGroup{}, ErrNotAssigned
	}

	return group, nil
}

// resolveSubject maps the (studentID, group) pair onto the evaluation
// subject key and the deliverable submission type it implies.
func (s *eligibilityService) resolveSubject(ctx context.Context, studentID *uint, group models.ProjectGroup) (repository.SubjectKey, string, error) {
	if studentID == nil {
		return repository.SubjectKey{SubjectType: models.SubjectTypeGroup, SubjectID: group.ID}, models.SubmissionTypeGroup, nil
	}

	student, err := s.groups.GetStudent(ctx, *studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.SubjectKey{}, "", ErrStudentNotInGroup
		}
		return repository.SubjectKey{}, "", err
	}

	if student.GroupID == nil || *student.GroupID != group.ID {
		return repository.SubjectKey{}, "", ErrStudentNotInGroup
	}

	return repository.SubjectKey{SubjectType: models.SubjectTypeIndividual, SubjectID: student.ID}, models.SubmissionTypeIndividual, nil
}
