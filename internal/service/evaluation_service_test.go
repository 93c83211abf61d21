package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/dto"
	"github.com/noah-isme/fyp-go-api/internal/grading"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/repository"
)

func newEvaluationFixture(t *testing.T) (EvaluationService, fypFixture, *repositorySet, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	fixture := seedFixture(t, db)
	repos := newRepositorySet(db)
	eligibility := NewEligibilityService(repos.Deliverables, repos.Submissions, repos.Evaluations, repos.Groups, testLogger())
	svc := NewEvaluationService(repos.Deliverables, repos.Evaluations, repos.Audits, eligibility, nil, nil, testValidator(), testLogger())
	return svc, fixture, repos, db
}

func reportScores(t *testing.T, repos *repositorySet, fixture fypFixture, first, second int) map[uint]int {
	t.Helper()
	report, err := repos.Deliverables.GetByID(context.Background(), fixture.Report.ID)
	require.NoError(t, err)
	require.Len(t, report.Rubrics, 2)
	return map[uint]int{
		report.Rubrics[0].ID: first,
		report.Rubrics[1].ID: second,
	}
}

func TestSubmitComputesWeightedGrade(t *testing.T) {
	svc, fixture, repos, _ := newEvaluationFixture(t)
	rater := Rater{ID: fixture.Supervisor.ID, Role: models.RaterRoleSupervisor}

	response, err := svc.Submit(context.Background(), rater, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 8, 6),
		Feedback:      "Clear problem statement, methodology needs depth.",
	})
	require.NoError(t, err)
	require.InDelta(t, 28.0, response.Grade, 1e-9)
	require.Equal(t, models.SubjectTypeGroup, response.SubjectType)
	require.Equal(t, fixture.Group.ID, response.SubjectID)
	require.Len(t, response.Scores, 2)
}

func TestSubmitRegradeKeepsSingleEvaluation(t *testing.T) {
	svc, fixture, repos, db := newEvaluationFixture(t)
	rater := Rater{ID: fixture.Supervisor.ID, Role: models.RaterRoleSupervisor}
	ctx := context.Background()

	_, err := svc.Submit(ctx, rater, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 8, 6),
		Feedback:      "First pass.",
	})
	require.NoError(t, err)

	// Resubmitting the same (rater role, subject, deliverable) triple is
	// the regrade path: the prior evaluation is replaced wholesale.
	response, err := svc.Submit(ctx, rater, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 10, 10),
		Feedback:      "Full marks after corrections.",
	})
	require.NoError(t, err)
	require.InDelta(t, 40.0, response.Grade, 1e-9)

	var rows int64
	require.NoError(t, db.Model(&models.Evaluation{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)

	stored, err := repos.Evaluations.Get(ctx, repository.SubjectKey{SubjectType: models.SubjectTypeGroup, SubjectID: fixture.Group.ID}, fixture.Report.ID, models.RaterRoleSupervisor)
	require.NoError(t, err)
	require.InDelta(t, 40.0, stored.Grade, 1e-9)
	require.Equal(t, "Full marks after corrections.", stored.Feedback)

	var scoreRows int64
	require.NoError(t, db.Model(&models.EvaluationRubricScore{}).Where("evaluation_id = ?", stored.ID).Count(&scoreRows).Error)
	require.EqualValues(t, 2, scoreRows, "child score rows are replaced, not appended")

	// The audit trail keeps both passes: the initial grading and the regrade.
	entries, err := repos.Audits.ListByEntity(ctx, "evaluation", stored.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.ActionEvaluationGraded, entries[0].Action)
	require.Equal(t, models.ActionEvaluationRegraded, entries[1].Action)
	require.EqualValues(t, rater.ID, entries[1].ActorID)
	g, err := entries[1].Metadata["evaluation_grade"].(json.Number).Float64()
	require.NoError(t, err)
	require.InDelta(t, 40.0, g, 1e-9)
}

func TestSubmitRoleIsolation(t *testing.T) {
	svc, fixture, repos, db := newEvaluationFixture(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, Rater{ID: fixture.Supervisor.ID, Role: models.RaterRoleSupervisor}, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 8, 6),
		Feedback:      "Supervisor view.",
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, Rater{ID: fixture.Assessor.ID, Role: models.RaterRoleAssessor}, dto.EvaluationSubmitRequest{
		RaterRole:     "assessor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 5, 5),
		Feedback:      "Assessor view.",
	})
	require.NoError(t, err)

	var rows int64
	require.NoError(t, db.Model(&models.Evaluation{}).Count(&rows).Error)
	require.EqualValues(t, 2, rows)

	key := repository.SubjectKey{SubjectType: models.SubjectTypeGroup, SubjectID: fixture.Group.ID}
	supervisorRow, err := repos.Evaluations.Get(ctx, key, fixture.Report.ID, models.RaterRoleSupervisor)
	require.NoError(t, err)
	require.InDelta(t, 28.0, supervisorRow.Grade, 1e-9)
	require.Equal(t, "Supervisor view.", supervisorRow.Feedback)

	assessorRow, err := repos.Evaluations.Get(ctx, key, fixture.Report.ID, models.RaterRoleAssessor)
	require.NoError(t, err)
	require.InDelta(t, 20.0, assessorRow.Grade, 1e-9)
}

func TestSubmitRejectsPartialScores(t *testing.T) {
	svc, fixture, repos, db := newEvaluationFixture(t)
	ctx := context.Background()

	scores := reportScores(t, repos, fixture, 8, 6)
	for id := range scores {
		delete(scores, id)
		break
	}

	_, err := svc.Submit(ctx, Rater{ID: fixture.Supervisor.ID, Role: models.RaterRoleSupervisor}, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        scores,
		Feedback:      "Half graded.",
	})
	require.Error(t, err)

	var missing grading.MissingScoreError
	require.ErrorAs(t, err, &missing)

	var rows int64
	require.NoError(t, db.Model(&models.Evaluation{}).Count(&rows).Error)
	require.Zero(t, rows, "nothing may persist on invalid input")
}

func TestSubmitRejectsScoreOutOfRange(t *testing.T) {
	svc, fixture, repos, _ := newEvaluationFixture(t)

	_, err := svc.Submit(context.Background(), Rater{ID: fixture.Supervisor.ID, Role: models.RaterRoleSupervisor}, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 11, 6),
		Feedback:      "Too generous.",
	})
	require.Error(t, err)

	var outOfRange grading.ScoreOutOfRangeError
	require.ErrorAs(t, err, &outOfRange)
	require.Equal(t, 11, outOfRange.Score)
}

func TestSubmitSanitizesFeedback(t *testing.T) {
	svc, fixture, repos, _ := newEvaluationFixture(t)

	_, err := svc.Submit(context.Background(), Rater{ID: fixture.Supervisor.ID, Role: models.RaterRoleSupervisor}, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 8, 6),
		Feedback:      "<script>alert(1)</script>",
	})
	require.ErrorIs(t, err, ErrEmptyFeedback)
}

func TestSubmitAuthorization(t *testing.T) {
	svc, fixture, repos, _ := newEvaluationFixture(t)

	_, err := svc.Submit(context.Background(), Rater{ID: fixture.Assessor.ID, Role: models.RaterRoleSupervisor}, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 8, 6),
		Feedback:      "Wrong hat.",
	})
	require.ErrorIs(t, err, ErrNotAssigned)
}

func TestSubmitUnknownDeliverable(t *testing.T) {
	svc, fixture, _, _ := newEvaluationFixture(t)

	_, err := svc.Submit(context.Background(), Rater{ID: fixture.Supervisor.ID, Role: models.RaterRoleSupervisor}, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: 4242,
		Scores:        map[uint]int{1: 1},
		Feedback:      "Ghost deliverable.",
	})
	require.ErrorIs(t, err, ErrDeliverableNotFound)
}

type failingEvaluationRepo struct {
	repository.EvaluationRepository
	replaceErr error
}

func (f *failingEvaluationRepo) Replace(ctx context.Context, evaluation *models.Evaluation, scores []models.EvaluationRubricScore) error {
	return f.replaceErr
}

func TestSubmitPersistenceFailure(t *testing.T) {
	db := setupServiceDB(t)
	fixture := seedFixture(t, db)
	repos := newRepositorySet(db)

	failing := &failingEvaluationRepo{EvaluationRepository: repos.Evaluations, replaceErr: errors.New("connection reset")}
	eligibility := NewEligibilityService(repos.Deliverables, repos.Submissions, failing, repos.Groups, testLogger())
	svc := NewEvaluationService(repos.Deliverables, failing, repos.Audits, eligibility, nil, nil, testValidator(), testLogger())

	_, err := svc.Submit(context.Background(), Rater{ID: fixture.Supervisor.ID, Role: models.RaterRoleSupervisor}, dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        reportScores(t, repos, fixture, 8, 6),
		Feedback:      "Will not stick.",
	})
	require.ErrorIs(t, err, ErrPersistence)

	var rows int64
	require.NoError(t, db.Model(&models.Evaluation{}).Count(&rows).Error)
	require.Zero(t, rows)
}
