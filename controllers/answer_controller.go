package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/middleware"
	"github.com/rcamargo/likert-server/models"
)

type AnswerController struct {
	DB *gorm.DB
}

func NewAnswerController(db *gorm.DB) *AnswerController {
	return &AnswerController{DB: db}
}

type answerReq struct {
	QuestionID     uint `json:"question_id" binding:"required"`
	AnswerOptionID uint `json:"answer_option_id" binding:"required"`
}

type submitAnswersReq struct {
	Answers []answerReq `json:"answers" binding:"required,min=1,dive"`
}

// POST /api/forms/:id/answers
// Stores one answer row per submitted question. A repeat submission for a
// question is recorded as a new fact; listings order by created_at so the
// most recent one wins on display.
func (ac *AnswerController) SubmitAnswers(c *gin.Context) {
	formID, err := strconv.Atoi(c.Param("id"))
	if err != nil || formID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}

	var form models.Form
	if err := ac.DB.Scopes(models.Live).First(&form, formID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Formulário não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar formulário"})
		return
	}
	if !form.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"message": "Formulário não está recebendo respostas"})
		return
	}

	u := c.MustGet(middleware.CtxUser).(models.User)

	var req submitAnswersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		for _, ans := range req.Answers {
			// the question must be live-linked to this form
			var link models.FormQuestion
			if err := tx.Scopes(models.Live).
				Where("form_id = ? AND question_id = ?", form.ID, ans.QuestionID).
				First(&link).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("pergunta %d não pertence ao formulário", ans.QuestionID)
				}
				return err
			}

			var question models.Question
			if err := tx.Scopes(models.Live).First(&question, ans.QuestionID).Error; err != nil {
				return fmt.Errorf("pergunta %d inválida", ans.QuestionID)
			}

			var option models.AnswerOption
			if err := tx.Scopes(models.Live).First(&option, ans.AnswerOptionID).Error; err != nil {
				return fmt.Errorf("opção %d inválida", ans.AnswerOptionID)
			}

			linkID := link.ID
			answer := models.Answer{
				UserID:         u.ID,
				FormID:         form.ID,
				QuestionID:     question.ID,
				AnswerOptionID: option.ID,
				FormQuestionID: &linkID,
				Lifecycle:      models.LiveNow(),
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("submit answers failed for form %d: %v", form.ID, err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Respostas registradas"})
}
