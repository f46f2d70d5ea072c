package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/models"
)

func newFormRouter(db *gorm.DB) *gin.Engine {
	fc := NewFormController(db)
	r := gin.New()
	r.GET("/api/forms", fc.ListForms)
	r.GET("/api/forms/:id", fc.GetFormDetail)
	r.POST("/api/admin/forms", fc.CreateForm)
	r.PUT("/api/admin/forms/:id", fc.UpdateForm)
	r.DELETE("/api/admin/forms/:id", fc.DeleteForm)
	r.POST("/api/admin/forms/:id/questions", fc.AttachQuestion)
	r.PUT("/api/admin/forms/:id/questions/reorder", fc.ReorderQuestions)
	r.DELETE("/api/admin/forms/:id/questions/:qid", fc.DetachQuestion)
	return r
}

func livePositions(t *testing.T, db *gorm.DB, formID uint) map[uint]int {
	t.Helper()
	var links []models.FormQuestion
	if err := db.Scopes(models.Live).Where("form_id = ?", formID).Find(&links).Error; err != nil {
		t.Fatalf("failed to load links: %v", err)
	}
	pos := map[uint]int{}
	for _, l := range links {
		pos[l.QuestionID] = l.Position
	}
	return pos
}

func TestListFormsSkipsInactiveAndDeleted(t *testing.T) {
	db := newTestDB(t)
	form, _, _, _ := seedForm(t, db)

	mustCreate(t, db, &models.Form{Title: "Pausado", IsActive: false, Lifecycle: models.LiveNow()})
	deleted := models.Form{Title: "Removido", IsActive: true, Lifecycle: models.LiveNow()}
	mustCreate(t, db, &deleted)
	if err := db.Model(&models.Form{}).Where("id = ?", deleted.ID).
		Updates(map[string]interface{}{"state": models.StateDeleted}).Error; err != nil {
		t.Fatalf("failed to soft-delete form: %v", err)
	}

	r := newFormRouter(db)
	w := serveJSON(r, "GET", "/api/forms", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. Body: %s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	forms := resp["forms"].([]interface{})
	if len(forms) != 1 {
		t.Fatalf("listed %d forms, want 1", len(forms))
	}
	got := forms[0].(map[string]interface{})
	if got["title"] != form.Title {
		t.Errorf("listed form %v, want %q", got["title"], form.Title)
	}
}

func TestGetFormDetail(t *testing.T) {
	db := newTestDB(t)
	form, q, options, _ := seedForm(t, db)

	if err := db.Model(&q).Association("AnswerOptions").Append(&options); err != nil {
		t.Fatalf("failed to link options: %v", err)
	}

	// second question, soft-deleted after linking: its link survives but
	// the detail must not show it
	gone := models.Question{Text: "Pergunta removida", Lifecycle: models.LiveNow()}
	mustCreate(t, db, &gone)
	mustCreate(t, db, &models.FormQuestion{FormID: form.ID, QuestionID: gone.ID, Position: 2, Lifecycle: models.LiveNow()})
	if err := db.Model(&models.Question{}).Where("id = ?", gone.ID).
		Updates(map[string]interface{}{"state": models.StateDeleted}).Error; err != nil {
		t.Fatalf("failed to soft-delete question: %v", err)
	}

	r := newFormRouter(db)
	w := serveJSON(r, "GET", fmt.Sprintf("/api/forms/%d", form.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. Body: %s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	detail := resp["form"].(map[string]interface{})
	questions := detail["questions"].([]interface{})
	if len(questions) != 1 {
		t.Fatalf("detail shows %d questions, want 1", len(questions))
	}
	first := questions[0].(map[string]interface{})
	inner := first["question"].(map[string]interface{})
	if inner["text"] != q.Text {
		t.Errorf("question text = %v, want %q", inner["text"], q.Text)
	}
	opts := inner["answer_options"].([]interface{})
	if len(opts) != 5 {
		t.Errorf("question has %d options, want 5", len(opts))
	}

	w = serveJSON(r, "GET", "/api/forms/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status for unknown form = %d, want 404", w.Code)
	}
}

func TestCreateAndUpdateForm(t *testing.T) {
	db := newTestDB(t)
	r := newFormRouter(db)

	w := serveJSON(r, "POST", "/api/admin/forms", jsonBody(t, map[string]interface{}{
		"title":       "Avaliação Psicossocial",
		"description": "Clima da equipe",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201. Body: %s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	created := resp["form"].(map[string]interface{})
	if created["is_active"] != true {
		t.Error("new form is not active by default")
	}
	id := uint(created["id"].(float64))

	w = serveJSON(r, "PUT", fmt.Sprintf("/api/admin/forms/%d", id), jsonBody(t, map[string]interface{}{
		"is_active": false,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. Body: %s", w.Code, w.Body.String())
	}

	var form models.Form
	if err := db.First(&form, id).Error; err != nil {
		t.Fatalf("failed to reload form: %v", err)
	}
	if form.IsActive {
		t.Error("form stayed active after the update")
	}
	if form.Title != "Avaliação Psicossocial" {
		t.Errorf("title = %q, changed by a partial update", form.Title)
	}

	w = serveJSON(r, "PUT", fmt.Sprintf("/api/admin/forms/%d", id), jsonBody(t, map[string]interface{}{}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status for empty update = %d, want 400", w.Code)
	}

	w = serveJSON(r, "POST", "/api/admin/forms", jsonBody(t, map[string]interface{}{"description": "sem título"}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status for missing title = %d, want 422", w.Code)
	}
}

func TestDeleteFormSoftDeletesLinks(t *testing.T) {
	db := newTestDB(t)
	form, q, opts, u := seedForm(t, db)
	mustCreate(t, db, &models.Answer{
		UserID:         u.ID,
		FormID:         form.ID,
		QuestionID:     q.ID,
		AnswerOptionID: opts[0].ID,
		Lifecycle:      models.LiveNow(),
	})

	r := newFormRouter(db)
	w := serveJSON(r, "DELETE", fmt.Sprintf("/api/admin/forms/%d", form.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. Body: %s", w.Code, w.Body.String())
	}

	var reloaded models.Form
	if err := db.First(&reloaded, form.ID).Error; err != nil {
		t.Fatalf("form row vanished: %v", err)
	}
	if reloaded.IsLive() {
		t.Error("form is still live after delete")
	}
	if reloaded.DeletedAt == nil {
		t.Error("form has no deletion time")
	}

	var liveLinks int64
	db.Model(&models.FormQuestion{}).Where("form_id = ? AND state = ?", form.ID, models.StateLive).Count(&liveLinks)
	if liveLinks != 0 {
		t.Errorf("form still has %d live links", liveLinks)
	}

	// historical answers survive untouched
	var answers int64
	db.Model(&models.Answer{}).Where("form_id = ? AND state = ?", form.ID, models.StateLive).Count(&answers)
	if answers != 1 {
		t.Errorf("answers = %d, want 1", answers)
	}

	// a second delete finds nothing live
	w = serveJSON(r, "DELETE", fmt.Sprintf("/api/admin/forms/%d", form.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status for repeated delete = %d, want 404", w.Code)
	}
}

func TestAttachDetachReorder(t *testing.T) {
	db := newTestDB(t)
	form, q1, _, _ := seedForm(t, db)

	q2 := models.Question{Text: "Pergunta 2", Lifecycle: models.LiveNow()}
	mustCreate(t, db, &q2)
	q3 := models.Question{Text: "Pergunta 3", Lifecycle: models.LiveNow()}
	mustCreate(t, db, &q3)

	r := newFormRouter(db)

	// attach q2 and q3; they land at positions 2 and 3
	for _, qid := range []uint{q2.ID, q3.ID} {
		w := serveJSON(r, "POST", fmt.Sprintf("/api/admin/forms/%d/questions", form.ID),
			jsonBody(t, map[string]interface{}{"question_id": qid}))
		if w.Code != http.StatusCreated {
			t.Fatalf("attach status = %d, want 201. Body: %s", w.Code, w.Body.String())
		}
	}
	pos := livePositions(t, db, form.ID)
	if pos[q1.ID] != 1 || pos[q2.ID] != 2 || pos[q3.ID] != 3 {
		t.Fatalf("positions after attach = %v, want 1/2/3", pos)
	}

	// re-attaching a linked question conflicts
	w := serveJSON(r, "POST", fmt.Sprintf("/api/admin/forms/%d/questions", form.ID),
		jsonBody(t, map[string]interface{}{"question_id": q2.ID}))
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate attach status = %d, want 409", w.Code)
	}

	// attaching an unknown question 404s
	w = serveJSON(r, "POST", fmt.Sprintf("/api/admin/forms/%d/questions", form.ID),
		jsonBody(t, map[string]interface{}{"question_id": 9999}))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown question attach status = %d, want 404", w.Code)
	}

	// reorder to q3, q1, q2
	w = serveJSON(r, "PUT", fmt.Sprintf("/api/admin/forms/%d/questions/reorder", form.ID),
		jsonBody(t, map[string]interface{}{"order": []uint{q3.ID, q1.ID, q2.ID}}))
	if w.Code != http.StatusOK {
		t.Fatalf("reorder status = %d, want 200. Body: %s", w.Code, w.Body.String())
	}
	pos = livePositions(t, db, form.ID)
	if pos[q3.ID] != 1 || pos[q1.ID] != 2 || pos[q2.ID] != 3 {
		t.Fatalf("positions after reorder = %v, want q3=1 q1=2 q2=3", pos)
	}

	// reorder listing an unlinked question is rejected
	w = serveJSON(r, "PUT", fmt.Sprintf("/api/admin/forms/%d/questions/reorder", form.ID),
		jsonBody(t, map[string]interface{}{"order": []uint{q1.ID, 9999}}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad reorder status = %d, want 400", w.Code)
	}

	// detach the first question; the rest shift back
	w = serveJSON(r, "DELETE", fmt.Sprintf("/api/admin/forms/%d/questions/%d", form.ID, q3.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detach status = %d, want 200. Body: %s", w.Code, w.Body.String())
	}
	pos = livePositions(t, db, form.ID)
	if len(pos) != 2 || pos[q1.ID] != 1 || pos[q2.ID] != 2 {
		t.Fatalf("positions after detach = %v, want q1=1 q2=2", pos)
	}

	// detaching again finds no live link
	w = serveJSON(r, "DELETE", fmt.Sprintf("/api/admin/forms/%d/questions/%d", form.ID, q3.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("repeated detach status = %d, want 404", w.Code)
	}
}
