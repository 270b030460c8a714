package services

import (
	"path/filepath"
	"testing"

	"github.com/surveyhub/survey-server/config"
	"github.com/surveyhub/survey-server/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{Name: email, Email: email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func seedSurvey(t *testing.T, db *gorm.DB, owner models.User, title, status string) models.Survey {
	t.Helper()

	survey := models.Survey{OwnerID: owner.ID, Title: title, Status: status}
	if err := db.Create(&survey).Error; err != nil {
		t.Fatalf("seed survey %q: %v", title, err)
	}
	return survey
}

func seedQuestion(t *testing.T, db *gorm.DB, survey models.Survey, text, qType string) models.Question {
	t.Helper()

	question := models.Question{SurveyID: survey.ID, Text: text, Type: qType}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("seed question %q: %v", text, err)
	}
	return question
}

func seedAnswer(t *testing.T, db *gorm.DB, question models.Question, text string) models.Answer {
	t.Helper()

	answer := models.Answer{QuestionID: question.ID, Text: text}
	if err := db.Create(&answer).Error; err != nil {
		t.Fatalf("seed answer %q: %v", text, err)
	}
	return answer
}
