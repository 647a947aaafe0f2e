package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sparrowhq/talent-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.JobOpening{},
		&models.JobRoundTemplate{},
		&models.Candidate{},
		&models.CandidateRound{},
		&models.Evaluation{},
		&models.View{},
		&models.Resume{},
		&models.RoundSetting{},
		&models.ProgressEvent{},
		&models.ProgressionReceipt{},
	))

	return db
}

func seedJob(t *testing.T, db *gorm.DB, title string) models.JobOpening {
	t.Helper()

	job := models.JobOpening{Title: title, Status: models.JobStatusActive, RecruiterID: 7, HasRoundsStarted: true}
	require.NoError(t, db.Create(&job).Error)

	return job
}

func seedTemplate(t *testing.T, db *gorm.DB, jobID uint, name, roundType string, order int) models.JobRoundTemplate {
	t.Helper()

	template := models.JobRoundTemplate{JobOpeningID: jobID, Name: name, Type: roundType, OrderIndex: order}
	require.NoError(t, db.Create(&template).Error)

	return template
}

func seedCandidate(t *testing.T, db *gorm.DB, jobID uint, name string) models.Candidate {
	t.Helper()

	candidate := models.Candidate{
		JobOpeningID: jobID,
		Name:         name,
		Email:        fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
	}
	require.NoError(t, db.Create(&candidate).Error)

	return candidate
}

func seedRound(t *testing.T, db *gorm.DB, candidateID, templateID uint, status string) models.CandidateRound {
	t.Helper()

	round := models.CandidateRound{
		CandidateID:        candidateID,
		JobRoundTemplateID: templateID,
		Status:             status,
		CreatedBy:          7,
	}
	require.NoError(t, db.Create(&round).Error)

	return round
}
