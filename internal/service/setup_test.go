package service

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/fyp-go-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupServiceDB(t *testing.T) *gorm.DB {
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
	return db
}

// fypFixture seeds one project group with a supervisor, an assessor, two
// students, a group deliverable (weightage 40, two rubrics) with a
// submission, and an individual deliverable (weightage 20, one rubric)
// submitted by the first student only.
type fypFixture struct {
	Supervisor models.Lecturer
	Assessor   models.Lecturer
	Group      models.ProjectGroup
	StudentOne models.Student
	StudentTwo models.Student
	Report     models.Deliverable
	Logbook    models.Deliverable
}

const fixtureSemester = "2025/26-1"

func seedFixture(t *testing.T, db *gorm.DB) fypFixture {
	t.Helper()

	supervisor := models.Lecturer{Name: "Dr. Aminah", Email: "aminah@uni.test", RoleCode: models.RoleCodeSupervisor}
	assessor := models.Lecturer{Name: "Dr. Tan", Email: "tan@uni.test", RoleCode: models.RoleCodeAssessor}
	require.NoError(t, db.Create(&supervisor).Error)
	require.NoError(t, db.Create(&assessor).Error)

	group := models.ProjectGroup{
		Name:         "Smart Campus",
		Semester:     fixtureSemester,
		SupervisorID: &supervisor.ID,
		AssessorID:   &assessor.ID,
	}
	require.NoError(t, db.Create(&group).Error)

	studentOne := models.Student{Name: "Lim Wei", Email: "lim@uni.test", Semester: fixtureSemester, GroupID: &group.ID}
	studentTwo := models.Student{Name: "Nurul Huda", Email: "nurul@uni.test", Semester: fixtureSemester, GroupID: &group.ID}
	require.NoError(t, db.Create(&studentOne).Error)
	require.NoError(t, db.Create(&studentTwo).Error)

	report := models.Deliverable{
		Name:           "Final Report",
		Semester:       fixtureSemester,
		SubmissionType: models.SubmissionTypeGroup,
		Weightage:      40,
		Rubrics: []models.Rubric{
			{Criteria: "Problem Statement", MaxScore: 10},
			{Criteria: "Methodology", MaxScore: 10},
		},
	}
	require.NoError(t, db.Create(&report).Error)

	logbook := models.Deliverable{
		Name:           "Logbook",
		Semester:       fixtureSemester,
		SubmissionType: models.SubmissionTypeIndividual,
		Weightage:      20,
		Rubrics: []models.Rubric{
			{Criteria: "Consistency", MaxScore: 10},
		},
	}
	require.NoError(t, db.Create(&logbook).Error)

	submittedAt := time.Now().UTC().Add(-24 * time.Hour)
	groupSubmission := models.Submission{
		DeliverableID: report.ID,
		GroupID:       &group.ID,
		FilePath:      "uploads/final-report.pdf",
		SubmittedAt:   &submittedAt,
	}
	require.NoError(t, db.Create(&groupSubmission).Error)

	logbookSubmission := models.Submission{
		DeliverableID: logbook.ID,
		StudentID:     &studentOne.ID,
		GroupID:       &group.ID,
		FilePath:      "uploads/logbook-lim.pdf",
		SubmittedAt:   &submittedAt,
	}
	require.NoError(t, db.Create(&logbookSubmission).Error)

	return fypFixture{
		Supervisor: supervisor,
		Assessor:   assessor,
		Group:      group,
		StudentOne: studentOne,
		StudentTwo: studentTwo,
		Report:     report,
		Logbook:    logbook,
	}
}
