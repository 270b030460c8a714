package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/surveyhub/survey-server/config"
	"github.com/surveyhub/survey-server/models"
	"github.com/surveyhub/survey-server/pkg/logger"
	"github.com/surveyhub/survey-server/routes"
	"github.com/surveyhub/survey-server/utils"
)

const testSecret = "integration-test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	dsn := "file:" + filepath.Join(t.TempDir(), "api.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db
	config.C = &config.Config{}
	config.C.JWT.Secret = testSecret
	config.C.JWT.ExpireHours = 1

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func seedUserWithToken(t *testing.T, email string) (models.User, string) {
	t.Helper()
	user := models.User{Name: email, Email: email, PasswordHash: "x"}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := utils.GenerateToken([]byte(testSecret), user.ID, user.Email, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return user, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestSignupLoginMe(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "lovelace",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", w.Code, w.Body.String())
	}

	// Duplicate email is a conflict.
	w = doJSON(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Ada again",
		"email":    "ada@example.com",
		"password": "lovelace",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "lovelace",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}

	w = doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", w.Code)
	}
}

func TestSurveyLifecycle(t *testing.T) {
	r := setupRouter(t)
	_, ownerToken := seedUserWithToken(t, "owner@example.com")
	_, respondentToken := seedUserWithToken(t, "respondent@example.com")

	// Create a draft.
	w := doJSON(t, r, http.MethodPost, "/api/surveys", ownerToken, gin.H{
		"title":       "Pets",
		"description": "About your pets",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	if created["slug"] != "pets" {
		t.Fatalf("slug = %v, want pets", created["slug"])
	}

	// Drafts must not be submittable.
	w = doJSON(t, r, http.MethodPost, "/api/surveys/pets/submit", respondentToken, gin.H{
		"answers": []gin.H{{"question_id": 1, "answers": []uint{1}}},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("draft submit status = %d, want 404", w.Code)
	}

	// Publishing an empty survey fails the gate.
	w = doJSON(t, r, http.MethodPatch, "/api/surveys/pets/publish", ownerToken, gin.H{"published": true})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty publish status = %d, want 422", w.Code)
	}

	// Author a question with two answers.
	w = doJSON(t, r, http.MethodPost, "/api/surveys/pets/questions", ownerToken, gin.H{
		"text": "Favorite animal",
		"type": "DEFAULT",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add question status = %d, body %s", w.Code, w.Body.String())
	}
	questionID := uint(decode(t, w)["question_id"].(float64))

	var answerIDs []uint
	for _, text := range []string{"Cat", "Dog"} {
		w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/questions/%d/answers", questionID), ownerToken, gin.H{"text": text})
		if w.Code != http.StatusCreated {
			t.Fatalf("add answer status = %d, body %s", w.Code, w.Body.String())
		}
		answerIDs = append(answerIDs, uint(decode(t, w)["answer_id"].(float64)))
	}

	// Now the gate passes.
	w = doJSON(t, r, http.MethodPatch, "/api/surveys/pets/publish", ownerToken, gin.H{"published": true})
	if w.Code != http.StatusOK {
		t.Fatalf("publish status = %d, body %s", w.Code, w.Body.String())
	}

	// Published surveys reject further authoring.
	w = doJSON(t, r, http.MethodPost, "/api/surveys/pets/questions", ownerToken, gin.H{"text": "Too late"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("post-publish authoring status = %d, want 403", w.Code)
	}

	// The respondent can see it and take it.
	w = doJSON(t, r, http.MethodGet, "/api/surveys/pets", respondentToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detail status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/surveys/pets/submit", respondentToken, gin.H{
		"answers": []gin.H{{"question_id": questionID, "answers": []uint{answerIDs[0]}}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", w.Code, w.Body.String())
	}

	// Statistics reflect exactly one completion, one Cat.
	w = doJSON(t, r, http.MethodGet, "/api/surveys/pets/statistics", ownerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("statistics status = %d", w.Code)
	}
	stats := decode(t, w)
	if stats["completed"].(float64) != 1 {
		t.Errorf("completed = %v, want 1", stats["completed"])
	}

	// Re-submitting is rejected without touching the counts.
	w = doJSON(t, r, http.MethodPost, "/api/surveys/pets/submit", respondentToken, gin.H{
		"answers": []gin.H{{"question_id": questionID, "answers": []uint{answerIDs[0]}}},
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("resubmit status = %d, want 403", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/surveys/pets/statistics", ownerToken, nil)
	stats = decode(t, w)
	if stats["completed"].(float64) != 1 {
		t.Errorf("completed after resubmit = %v, want 1", stats["completed"])
	}
}

func TestSubmitValidationErrors(t *testing.T) {
	r := setupRouter(t)
	owner, _ := seedUserWithToken(t, "owner@example.com")
	_, respondentToken := seedUserWithToken(t, "respondent@example.com")

	survey := models.Survey{OwnerID: owner.ID, Title: "Quiz", Status: models.SurveyStatusPublished}
	if err := config.DB.Create(&survey).Error; err != nil {
		t.Fatalf("seed survey: %v", err)
	}
	binary := models.Question{SurveyID: survey.ID, Text: "Coffee?", Type: models.QuestionTypeBinary}
	if err := config.DB.Create(&binary).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	yes := models.Answer{QuestionID: binary.ID, Text: "Yes"}
	no := models.Answer{QuestionID: binary.ID, Text: "No"}
	config.DB.Create(&yes)
	config.DB.Create(&no)

	other := models.Survey{OwnerID: owner.ID, Title: "Other", Status: models.SurveyStatusPublished}
	config.DB.Create(&other)
	foreign := models.Question{SurveyID: other.ID, Text: "Elsewhere", Type: models.QuestionTypeDefault}
	config.DB.Create(&foreign)

	// Two answers on a binary question.
	w := doJSON(t, r, http.MethodPost, "/api/surveys/quiz/submit", respondentToken, gin.H{
		"answers": []gin.H{{"question_id": binary.ID, "answers": []uint{yes.ID, no.ID}}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("binary cardinality status = %d, body %s", w.Code, w.Body.String())
	}

	// A question from another survey.
	w = doJSON(t, r, http.MethodPost, "/api/surveys/quiz/submit", respondentToken, gin.H{
		"answers": []gin.H{{"question_id": foreign.ID, "answers": []uint{yes.ID}}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("foreign question status = %d, body %s", w.Code, w.Body.String())
	}

	// An unknown question id.
	w = doJSON(t, r, http.MethodPost, "/api/surveys/quiz/submit", respondentToken, gin.H{
		"answers": []gin.H{{"question_id": 9999, "answers": []uint{yes.ID}}},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown question status = %d, body %s", w.Code, w.Body.String())
	}

	// Nothing above may have recorded a completion.
	var count int64
	config.DB.Model(&models.SurveyCompletion{}).Count(&count)
	if count != 0 {
		t.Errorf("completions after rejected submissions = %d, want 0", count)
	}
}

func TestOwnershipAndAuth(t *testing.T) {
	r := setupRouter(t)
	owner, ownerToken := seedUserWithToken(t, "owner@example.com")
	_, strangerToken := seedUserWithToken(t, "stranger@example.com")

	survey := models.Survey{OwnerID: owner.ID, Title: "Mine", Status: models.SurveyStatusDraft}
	if err := config.DB.Create(&survey).Error; err != nil {
		t.Fatalf("seed survey: %v", err)
	}

	// No token at all.
	w := doJSON(t, r, http.MethodPost, "/api/surveys", "", gin.H{"title": "Nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create status = %d", w.Code)
	}

	// A stranger cannot edit or publish.
	w = doJSON(t, r, http.MethodPatch, "/api/surveys/mine", strangerToken, gin.H{"title": "Hijack"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger edit status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPatch, "/api/surveys/mine/publish", strangerToken, gin.H{"published": true})
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger publish status = %d", w.Code)
	}

	// The owner edit recomputes the slug.
	w = doJSON(t, r, http.MethodPatch, "/api/surveys/mine", ownerToken, gin.H{"title": "Renamed Survey"})
	if w.Code != http.StatusOK {
		t.Fatalf("owner edit status = %d, body %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["slug"]; got != "renamed-survey" {
		t.Errorf("slug = %v, want renamed-survey", got)
	}
}
