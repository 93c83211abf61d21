package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/config"
	"github.com/noah-isme/fyp-go-api/internal/dto"
	"github.com/noah-isme/fyp-go-api/internal/handler"
	"github.com/noah-isme/fyp-go-api/internal/middleware"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/repository"
	"github.com/noah-isme/fyp-go-api/internal/router"
	"github.com/noah-isme/fyp-go-api/internal/service"
)

type evaluationFixture struct {
	Supervisor models.Lecturer
	Group      models.ProjectGroup
	Report     models.Deliverable
}

func setupEvaluationApp(t *testing.T) (*fiber.App, *gorm.DB, *evaluationFixture) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Lecturer{},
		&models.Student{},
		&models.ProjectGroup{},
		&models.Deliverable{},
		&models.Rubric{},
		&models.RubricScoreRange{},
		&models.Submission{},
		&models.Evaluation{},
		&models.EvaluationRubricScore{},
		&models.AuditLog{},
	))

	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	deliverableRepo := repository.NewDeliverableRepository(db)
	rubricRepo := repository.NewRubricRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	eligibilityService := service.NewEligibilityService(deliverableRepo, submissionRepo, evaluationRepo, groupRepo, logger)
	viewService := service.NewEvaluationViewService(deliverableRepo, submissionRepo, evaluationRepo, groupRepo, cache, time.Minute, logger)
	gradeEvents := service.NewNATSGradeEventPublisher(nil, "", logger)
	evaluationService := service.NewEvaluationService(deliverableRepo, evaluationRepo, auditRepo, eligibilityService, viewService, gradeEvents, validate, logger)
	deliverableService := service.NewDeliverableService(deliverableRepo, rubricRepo, evaluationRepo, validate, logger)

	fixture := &evaluationFixture{}

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret", SubmitRateLimit: 100, SubmitRateWindow: time.Minute}, router.Dependencies{
		DeliverableHandler: handler.NewDeliverableHandler(deliverableService, validate, logger),
		EvaluationHandler:  handler.NewEvaluationHandler(evaluationService, eligibilityService, viewService, validate, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", fixture.Supervisor.ID)
			c.Locals("role_code", models.RoleCodeSupervisor)
			return c.Next()
		},
	})

	supervisor := models.Lecturer{Name: "Dr. Aminah", Email: "aminah@uni.test", RoleCode: models.RoleCodeSupervisor}
	require.NoError(t, db.Create(&supervisor).Error)

	group := models.ProjectGroup{Name: "Smart Campus", Semester: "2025/26-1", SupervisorID: &supervisor.ID}
	require.NoError(t, db.Create(&group).Error)

	report := models.Deliverable{
		Name:           "Final Report",
		Semester:       "2025/26-1",
		SubmissionType: models.SubmissionTypeGroup,
		Weightage:      40,
		Rubrics: []models.Rubric{
			{Criteria: "Problem Statement", MaxScore: 10},
			{Criteria: "Methodology", MaxScore: 10},
		},
	}
	require.NoError(t, db.Create(&report).Error)

	submittedAt := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Create(&models.Submission{
		DeliverableID: report.ID,
		GroupID:       &group.ID,
		FilePath:      "uploads/final-report.pdf",
		SubmittedAt:   &submittedAt,
	}).Error)

	fixture.Supervisor = supervisor
	fixture.Group = group
	fixture.Report = report

	return app, db, fixture
}

func decode[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func TestEvaluationEndToEndFlow(t *testing.T) {
	app, db, fixture := setupEvaluationApp(t)

	// Step 1: the supervisor sees the submitted report as evaluable.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/evaluable?rater_role=supervisor&group_id=1&semester=2025%2F26-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var evaluable struct {
		Data []dto.EvaluableDeliverable `json:"data"`
	}
	decode(t, resp, &evaluable)
	require.Len(t, evaluable.Data, 1)
	require.Equal(t, fixture.Report.ID, evaluable.Data[0].DeliverableID)
	require.Len(t, evaluable.Data[0].Rubrics, 2)

	// Step 2: submit scores 8 and 6 against max 10 for a weightage of 40.
	scores := map[uint]int{
		evaluable.Data[0].Rubrics[0].ID: 8,
		evaluable.Data[0].Rubrics[1].ID: 6,
	}
	body, err := json.Marshal(dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        scores,
		Feedback:      "Clear statement, methodology needs depth.",
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var submitted struct {
		Data dto.EvaluationResponse `json:"data"`
	}
	decode(t, resp, &submitted)
	require.InDelta(t, 28.0, submitted.Data.Grade, 1e-9)
	require.Equal(t, models.SubjectTypeGroup, submitted.Data.SubjectType)

	// Exactly one evaluation row exists.
	var rows int64
	require.NoError(t, db.Model(&models.Evaluation{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)

	// Step 3: the view now reports the deliverable as evaluated.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/view?rater_role=supervisor&group_id=1&semester=2025%2F26-1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view struct {
		Data dto.EvaluationViewResponse `json:"data"`
	}
	decode(t, resp, &view)
	require.Len(t, view.Data.Rows, 1)
	require.Equal(t, dto.ViewStatusEvaluated, view.Data.Rows[0].Status)
	require.NotNil(t, view.Data.Rows[0].Grade)
	require.InDelta(t, 28.0, *view.Data.Rows[0].Grade, 1e-9)

	// Step 4: nothing is left to evaluate for this role.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/evaluable?rater_role=supervisor&group_id=1&semester=2025%2F26-1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var remaining struct {
		Data []dto.EvaluableDeliverable `json:"data"`
	}
	decode(t, resp, &remaining)
	require.Empty(t, remaining.Data)

	// Step 5: resubmitting with corrected scores regrades in place — the
	// prior evaluation is replaced and the row count stays at one.
	scores[evaluable.Data[0].Rubrics[0].ID] = 10
	scores[evaluable.Data[0].Rubrics[1].ID] = 10
	body, err = json.Marshal(dto.EvaluationSubmitRequest{
		RaterRole:     "supervisor",
		GroupID:       fixture.Group.ID,
		DeliverableID: fixture.Report.ID,
		Scores:        scores,
		Feedback:      "Full marks after corrections.",
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &submitted)
	require.InDelta(t, 40.0, submitted.Data.Grade, 1e-9)

	require.NoError(t, db.Model(&models.Evaluation{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)

	var stored models.Evaluation
	require.NoError(t, db.First(&stored).Error)
	require.InDelta(t, 40.0, stored.Grade, 1e-9)
	require.Equal(t, "Full marks after corrections.", stored.Feedback)
}
