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

// OptionController manages the Likert answer options shared across
// questions.
type OptionController struct {
	DB *gorm.DB
}

func NewOptionController(db *gorm.DB) *OptionController {
	return &OptionController{DB: db}
}

// GET /api/admin/answer-options
func (oc *OptionController) ListOptions(c *gin.Context) {
	var options []models.AnswerOption
	if err := oc.DB.Scopes(models.Live).Order("created_at DESC").Find(&options).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar opções de resposta"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "answer_options": options})
}

type optionReq struct {
	Value string `json:"value" binding:"required,min=1"`
	Label string `json:"label" binding:"required,min=1"`
}

// POST /api/admin/answer-options
func (oc *OptionController) CreateOption(c *gin.Context) {
	var req optionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	opt := models.AnswerOption{Value: req.Value, Label: req.Label, Lifecycle: models.LiveNow()}
	if err := oc.DB.Create(&opt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao criar opção de resposta"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "answer_option": opt})
}

// PUT /api/admin/answer-options/:id
func (oc *OptionController) UpdateOption(c *gin.Context) {
	opt, ok := oc.loadLiveOption(c)
	if !ok {
		return
	}

	var req optionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	if err := oc.DB.Model(&opt).Updates(map[string]interface{}{
		"value": req.Value,
		"label": req.Label,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao atualizar opção de resposta"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "answer_option": opt})
}

// DELETE /api/admin/answer-options/:id: soft delete.
func (oc *OptionController) DeleteOption(c *gin.Context) {
	opt, ok := oc.loadLiveOption(c)
	if !ok {
		return
	}

	opt.MarkDeleted(time.Now())
	if err := oc.DB.Model(&opt).Updates(map[string]interface{}{
		"state":      opt.State,
		"deleted_at": opt.DeletedAt,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao excluir opção de resposta"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "deleted"})
}

func (oc *OptionController) loadLiveOption(c *gin.Context) (models.AnswerOption, bool) {
	var opt models.AnswerOption
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return opt, false
	}
	if err := oc.DB.Scopes(models.Live).First(&opt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Opção de resposta não encontrada"})
			return opt, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar opção de resposta"})
		return opt, false
	}
	return opt, true
}
