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

type QuestionController struct {
	DB *gorm.DB
}

func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{DB: db}
}

// GET /api/admin/questions: live questions, newest first, with their live
// answer options.
func (qc *QuestionController) ListQuestions(c *gin.Context) {
	var questions []models.Question
	err := qc.DB.Scopes(models.Live).
		Preload("AnswerOptions", func(db *gorm.DB) *gorm.DB { return db.Scopes(models.Live) }).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar perguntas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "questions": questions})
}

type createQuestionReq struct {
	Text      string `json:"text" binding:"required,min=1"`
	OptionIDs []uint `json:"option_ids"` // answer options to associate
}

// POST /api/admin/questions
func (qc *QuestionController) CreateQuestion(c *gin.Context) {
	var req createQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	q := models.Question{Text: req.Text, Lifecycle: models.LiveNow()}
	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&q).Error; err != nil {
			return err
		}
		return qc.associateOptions(tx, &q, req.OptionIDs)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao criar pergunta"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "question": q})
}

type batchQuestionsReq struct {
	Questions []string `json:"questions" binding:"required,min=1,dive,required"`
	OptionIDs []uint   `json:"option_ids"`
}

// POST /api/admin/questions/batch: create several questions at once,
// all sharing the same option set.
func (qc *QuestionController) CreateBatchQuestions(c *gin.Context) {
	var req batchQuestionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	created := make([]models.Question, 0, len(req.Questions))
	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		for _, text := range req.Questions {
			q := models.Question{Text: text, Lifecycle: models.LiveNow()}
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
			if err := qc.associateOptions(tx, &q, req.OptionIDs); err != nil {
				return err
			}
			created = append(created, q)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao criar perguntas em lote"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "questions": created})
}

func (qc *QuestionController) associateOptions(tx *gorm.DB, q *models.Question, optionIDs []uint) error {
	if len(optionIDs) == 0 {
		return nil
	}
	var options []models.AnswerOption
	if err := tx.Scopes(models.Live).Where("id IN ?", optionIDs).Find(&options).Error; err != nil {
		return err
	}
	if len(options) != len(optionIDs) {
		return gorm.ErrRecordNotFound
	}
	return tx.Model(q).Association("AnswerOptions").Append(options)
}

type updateQuestionReq struct {
	Text string `json:"text" binding:"required,min=1"`
}

// PUT /api/admin/questions/:id
func (qc *QuestionController) UpdateQuestion(c *gin.Context) {
	q, ok := qc.loadLiveQuestion(c)
	if !ok {
		return
	}

	var req updateQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	if err := qc.DB.Model(&q).Update("text", req.Text).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao atualizar pergunta"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "question": q})
}

// DELETE /api/admin/questions/:id: soft delete; historical answers keep
// referencing the row but it disappears from every live listing and from
// the dashboard stats.
func (qc *QuestionController) DeleteQuestion(c *gin.Context) {
	q, ok := qc.loadLiveQuestion(c)
	if !ok {
		return
	}

	q.MarkDeleted(time.Now())
	if err := qc.DB.Model(&q).Updates(map[string]interface{}{
		"state":      q.State,
		"deleted_at": q.DeletedAt,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao excluir pergunta"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "deleted"})
}

func (qc *QuestionController) loadLiveQuestion(c *gin.Context) (models.Question, bool) {
	var q models.Question
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return q, false
	}
	if err := qc.DB.Scopes(models.Live).First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Pergunta não encontrada"})
			return q, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar pergunta"})
		return q, false
	}
	return q, true
}
