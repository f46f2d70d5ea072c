package controllers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/rcamargo/likert-server/models"
)

type ExportController struct {
	DB     *gorm.DB
	OutDir string
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db, OutDir: "./exports"}
}

type exportRequest struct {
	Format    string  `json:"format"` // csv (default) or xlsx
	RangeFrom *string `json:"range_from,omitempty"`
	RangeTo   *string `json:"range_to,omitempty"`
}

// POST /api/admin/forms/:id/export: queue an export job and process it in
// the background; poll GET /api/exports/:job_id for the file.
func (ec *ExportController) CreateExport(c *gin.Context) {
	id := c.Param("id")

	var form models.Form
	if err := ec.DB.Scopes(models.Live).First(&form, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Formulário não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar formulário"})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payload inválido"})
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" && req.Format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Formato deve ser csv ou xlsx"})
		return
	}

	var fromPtr, toPtr *time.Time
	if req.RangeFrom != nil {
		if t, err := time.Parse(time.RFC3339, *req.RangeFrom); err == nil {
			fromPtr = &t
		}
	}
	if req.RangeTo != nil {
		if t, err := time.Parse(time.RFC3339, *req.RangeTo); err == nil {
			toPtr = &t
		}
	}

	jobID := uuid.New().String()
	job := models.ExportJob{
		JobID:     jobID,
		FormID:    form.ID,
		Format:    req.Format,
		RangeFrom: fromPtr,
		RangeTo:   toPtr,
		Status:    "queued",
	}
	if err := ec.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao criar job de exportação"})
		return
	}

	go ec.processExportJob(jobID)

	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "status": "queued"})
}

// GET /api/exports/:job_id
func (ec *ExportController) GetExport(c *gin.Context) {
	jobID := c.Param("job_id")
	var job models.ExportJob
	if err := ec.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Job não encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao buscar job"})
		return
	}

	if job.Status == "done" && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

type exportRow struct {
	AnswerID  uint
	UserEmail *string
	Question  string
	Answer    string
	CreatedAt time.Time
}

var exportHeader = []string{"answer_id", "email", "question", "answer", "created_at"}

func (ec *ExportController) processExportJob(jobID string) {
	var job models.ExportJob
	if err := ec.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		return
	}
	ec.DB.Model(&job).Update("status", "processing")

	rows, err := ec.exportRows(job)
	if err != nil {
		ec.failJob(&job, err)
		return
	}

	if err := os.MkdirAll(ec.OutDir, 0755); err != nil {
		ec.failJob(&job, err)
		return
	}
	outPath := path.Join(ec.OutDir, fmt.Sprintf("export_%s.%s", job.JobID, job.Format))

	switch job.Format {
	case "xlsx":
		err = writeXLSX(outPath, rows)
	default:
		err = writeCSV(outPath, rows)
	}
	if err != nil {
		ec.failJob(&job, err)
		return
	}

	ec.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "file_path": outPath})
}

func (ec *ExportController) exportRows(job models.ExportJob) ([]exportRow, error) {
	q := ec.DB.Model(&models.Answer{}).
		Select(`answers.id AS answer_id, users.email AS user_email,
			questions.text AS question, answer_options.label AS answer,
			answers.created_at`).
		Joins("LEFT JOIN users ON users.id = answers.user_id").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("JOIN answer_options ON answer_options.id = answers.answer_option_id").
		Where("answers.form_id = ? AND answers.state = ?", job.FormID, models.StateLive)
	if job.RangeFrom != nil {
		q = q.Where("answers.created_at >= ?", job.RangeFrom)
	}
	if job.RangeTo != nil {
		q = q.Where("answers.created_at <= ?", job.RangeTo)
	}

	var rows []exportRow
	if err := q.Order("answers.created_at ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (ec *ExportController) failJob(job *models.ExportJob, err error) {
	log.Printf("export job %s failed: %v", job.JobID, err)
	em := err.Error()
	ec.DB.Model(job).Updates(map[string]interface{}{"status": "failed", "error_msg": em})
}

func (r exportRow) strings() []string {
	email := ""
	if r.UserEmail != nil {
		email = *r.UserEmail
	}
	return []string{
		fmt.Sprintf("%d", r.AnswerID),
		email,
		r.Question,
		r.Answer,
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeCSV(outPath string, rows []exportRow) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.strings()); err != nil {
			return err
		}
	}
	return nil
}

func writeXLSX(outPath string, rows []exportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, r := range rows {
		for col, v := range r.strings() {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(outPath)
}
