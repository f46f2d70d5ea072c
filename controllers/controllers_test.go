package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rcamargo/likert-server/config"
	"github.com/rcamargo/likert-server/middleware"
	"github.com/rcamargo/likert-server/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to create %T: %v", value, err)
	}
}

// asUser injects a pre-authenticated user the way middleware.AuthJWT would.
func asUser(u models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUser, u)
		c.Next()
	}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// seedForm creates a live active form with one question, the five-point
// scale and one respondent.
func seedForm(t *testing.T, db *gorm.DB) (models.Form, models.Question, []models.AnswerOption, models.User) {
	t.Helper()

	var opts []models.AnswerOption
	labels := []string{"Discordo Totalmente", "Discordo Parcialmente", "Neutro", "Concordo Parcialmente", "Concordo Totalmente"}
	for i, label := range labels {
		opt := models.AnswerOption{Value: fmt.Sprint(i + 1), Label: label, Lifecycle: models.LiveNow()}
		mustCreate(t, db, &opt)
		opts = append(opts, opt)
	}

	form := models.Form{Title: "Avaliação Psicológica", IsActive: true, Lifecycle: models.LiveNow()}
	mustCreate(t, db, &form)

	q := models.Question{Text: "Sinto-me motivado no trabalho", Lifecycle: models.LiveNow()}
	mustCreate(t, db, &q)
	link := models.FormQuestion{FormID: form.ID, QuestionID: q.ID, Position: 1, Lifecycle: models.LiveNow()}
	mustCreate(t, db, &link)

	u := models.User{Name: "João Silva", Email: "joao@empresa.com", Password: "x"}
	mustCreate(t, db, &u)

	return form, q, opts, u
}

func serveJSON(r *gin.Engine, method, target string, body *bytes.Reader) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
