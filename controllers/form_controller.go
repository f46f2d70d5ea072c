package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/models"
)

type FormController struct {
	DB *gorm.DB
}

func NewFormController(db *gorm.DB) *FormController {
	return &FormController{DB: db}
}

// GET /api/forms: live, active forms for the respondent landing page.
func (fc *FormController) ListForms(c *gin.Context) {
	var forms []models.Form
	err := fc.DB.Scopes(models.Live).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&forms).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar formulários"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "forms": forms})
}

// GET /api/forms/:id: form with its live questions in presentation order,
// each carrying its live answer options.
func (fc *FormController) GetFormDetail(c *gin.Context) {
	form, ok := fc.loadLiveForm(c)
	if !ok {
		return
	}

	var links []models.FormQuestion
	err := fc.DB.Scopes(models.Live).
		Where("form_id = ?", form.ID).
		Preload("Question", func(db *gorm.DB) *gorm.DB { return db.Scopes(models.Live) }).
		Preload("Question.AnswerOptions", func(db *gorm.DB) *gorm.DB { return db.Scopes(models.Live) }).
		Order("position ASC, id ASC").
		Find(&links).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar formulário"})
		return
	}

	questions := []gin.H{}
	for _, l := range links {
		if !l.Question.IsLive() {
			// link survived a question soft-delete; skip it
			continue
		}
		questions = append(questions, gin.H{
			"form_question_id": l.ID,
			"position":         l.Position,
			"question":         l.Question,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"form": gin.H{
			"id":          form.ID,
			"title":       form.Title,
			"description": form.Description,
			"is_active":   form.IsActive,
			"questions":   questions,
		},
	})
}

type createFormReq struct {
	Title       string `json:"title" binding:"required,min=1"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// POST /api/admin/forms
func (fc *FormController) CreateForm(c *gin.Context) {
	var req createFormReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	form := models.Form{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
		Lifecycle:   models.LiveNow(),
	}
	if req.IsActive != nil {
		form.IsActive = *req.IsActive
	}

	if err := fc.DB.Create(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao criar formulário"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "form": form})
}

type updateFormReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// PUT /api/admin/forms/:id
func (fc *FormController) UpdateForm(c *gin.Context) {
	form, ok := fc.loadLiveForm(c)
	if !ok {
		return
	}

	var req updateFormReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nada para atualizar"})
		return
	}

	if err := fc.DB.Model(&form).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao atualizar formulário"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "form": form})
}

// DELETE /api/admin/forms/:id: soft delete the form and its question
// links. Answers stay for historical reporting.
func (fc *FormController) DeleteForm(c *gin.Context) {
	form, ok := fc.loadLiveForm(c)
	if !ok {
		return
	}

	now := time.Now()
	err := fc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Form{}).Where("id = ?", form.ID).
			Updates(map[string]interface{}{"state": models.StateDeleted, "deleted_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&models.FormQuestion{}).
			Where("form_id = ? AND state = ?", form.ID, models.StateLive).
			Updates(map[string]interface{}{"state": models.StateDeleted, "deleted_at": now}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao excluir formulário"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "deleted"})
}

type attachQuestionReq struct {
	QuestionID uint `json:"question_id" binding:"required"`
}

// POST /api/admin/forms/:id/questions: attach an existing question at the
// next free position.
func (fc *FormController) AttachQuestion(c *gin.Context) {
	form, ok := fc.loadLiveForm(c)
	if !ok {
		return
	}

	var req attachQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	var q models.Question
	if err := fc.DB.Scopes(models.Live).First(&q, req.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Pergunta não encontrada"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar pergunta"})
		return
	}

	var exists int64
	fc.DB.Model(&models.FormQuestion{}).
		Where("form_id = ? AND question_id = ? AND state = ?", form.ID, q.ID, models.StateLive).
		Count(&exists)
	if exists > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Pergunta já vinculada ao formulário"})
		return
	}

	// next position = MAX(position)+1 within the live set (1-based)
	type nextRes struct{ Next int }
	var r nextRes
	fc.DB.Model(&models.FormQuestion{}).
		Where("form_id = ? AND state = ?", form.ID, models.StateLive).
		Select("COALESCE(MAX(position), 0) + 1 AS next").
		Scan(&r)

	link := models.FormQuestion{
		FormID:     form.ID,
		QuestionID: q.ID,
		Position:   r.Next,
		Lifecycle:  models.LiveNow(),
	}
	if err := fc.DB.Create(&link).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao vincular pergunta"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "form_question": link})
}

// DELETE /api/admin/forms/:id/questions/:qid: soft delete the link and
// close the position gap.
func (fc *FormController) DetachQuestion(c *gin.Context) {
	form, ok := fc.loadLiveForm(c)
	if !ok {
		return
	}

	qid, err := strconv.Atoi(c.Param("qid"))
	if err != nil || qid <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}

	var link models.FormQuestion
	if err := fc.DB.Scopes(models.Live).
		Where("form_id = ? AND question_id = ?", form.ID, qid).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Pergunta não vinculada ao formulário"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar vínculo"})
		return
	}

	now := time.Now()
	err = fc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.FormQuestion{}).Where("id = ?", link.ID).
			Updates(map[string]interface{}{"state": models.StateDeleted, "deleted_at": now}).Error; err != nil {
			return err
		}
		// questions after the removed one shift back one position
		return tx.Model(&models.FormQuestion{}).
			Where("form_id = ? AND state = ? AND position > ?", form.ID, models.StateLive, link.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao desvincular pergunta"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "detached"})
}

type reorderReq struct {
	Order []uint `json:"order" binding:"required,min=1,dive,required"` // question ids
}

// PUT /api/admin/forms/:id/questions/reorder
func (fc *FormController) ReorderQuestions(c *gin.Context) {
	form, ok := fc.loadLiveForm(c)
	if !ok {
		return
	}

	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	// every listed question must be live-linked to this form
	var count int64
	if err := fc.DB.Model(&models.FormQuestion{}).
		Where("form_id = ? AND state = ? AND question_id IN ?", form.ID, models.StateLive, req.Order).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao validar perguntas"})
		return
	}
	if count != int64(len(req.Order)) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A lista contém perguntas não vinculadas ao formulário"})
		return
	}

	err := fc.DB.Transaction(func(tx *gorm.DB) error {
		for idx, qID := range req.Order {
			if err := tx.Model(&models.FormQuestion{}).
				Where("form_id = ? AND question_id = ? AND state = ?", form.ID, qID, models.StateLive).
				Update("position", idx+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao reordenar perguntas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "updated"})
}

func (fc *FormController) loadLiveForm(c *gin.Context) (models.Form, bool) {
	var form models.Form
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return form, false
	}
	if err := fc.DB.Scopes(models.Live).First(&form, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Formulário não encontrado"})
			return form, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar formulário"})
		return form, false
	}
	return form, true
}
