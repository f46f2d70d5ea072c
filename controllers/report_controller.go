package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcamargo/likert-server/reports"
)

// ReportController exposes the reporting aggregator to the admin screens.
// It owns no queries itself; everything goes through reports.Service.
type ReportController struct {
	Reports *reports.Service
}

func NewReportController(svc *reports.Service) *ReportController {
	return &ReportController{Reports: svc}
}

// GET /api/admin/dashboard?form_id=&page=&start_date=&end_date=
// Global dashboard; form_id narrows the answer-derived numbers to one form.
func (rc *ReportController) GetDashboard(c *gin.Context) {
	f, ok := parseReportFilter(c, nil)
	if !ok {
		return
	}

	d, err := rc.Reports.Dashboard(c.Request.Context(), f)
	if err != nil {
		log.Printf("dashboard aggregation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Erro ao buscar dados do dashboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}

// GET /api/admin/forms/:id/dashboard: same payload, form-scoped.
func (rc *ReportController) GetFormDashboard(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	formID := uint(id)

	f, ok := parseReportFilter(c, &formID)
	if !ok {
		return
	}

	d, err := rc.Reports.Dashboard(c.Request.Context(), f)
	if err != nil {
		log.Printf("form dashboard aggregation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Erro ao buscar dados do dashboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}

// GET /api/admin/forms/:id/submissions?page=&start_date=&end_date=
func (rc *ReportController) GetSubmissions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	formID := uint(id)

	f, ok := parseReportFilter(c, &formID)
	if !ok {
		return
	}

	subs, page, err := rc.Reports.Submissions(c.Request.Context(), f)
	if err != nil {
		log.Printf("submissions listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Erro ao buscar respostas",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"form_id":     formID,
		"submissions": subs,
		"pagination":  page,
	})
}

// parseReportFilter reads the shared query params. A formID from the route
// path wins over the form_id query param.
func parseReportFilter(c *gin.Context, formID *uint) (reports.Filter, bool) {
	f := reports.Filter{FormID: formID, PageSize: reports.DefaultPageSize}

	if formID == nil {
		if raw := c.Query("form_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil || id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "form_id inválido"})
				return f, false
			}
			v := uint(id)
			f.FormID = &v
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	f.Page = page

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "start_date inválida (use AAAA-MM-DD)"})
			return f, false
		}
		f.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "end_date inválida (use AAAA-MM-DD)"})
			return f, false
		}
		f.EndDate = &t
	}

	return f, true
}
