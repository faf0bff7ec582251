package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/opportune-api/internal/application"
	"github.com/oksasatya/opportune-api/internal/interface/middleware"
	"github.com/oksasatya/opportune-api/pkg/response"
)

type ApplicationHandler struct {
	Svc    *app.ApplicationService
	Logger logrus.FieldLogger
}

func NewApplicationHandler(svc *app.ApplicationService, logger logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{Svc: svc, Logger: logger}
}

type applyRequest struct {
	JobID       string `json:"jobId" binding:"required,notblank,max=200"`
	Title       string `json:"title" binding:"required,notblank,max=300"`
	Company     string `json:"company" binding:"required,notblank,max=300"`
	Category    string `json:"category" binding:"required,oneof=job internship workshop"`
	AppliedDate string `json:"appliedDate" binding:"omitempty,datetime=2006-01-02"`
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	var applied time.Time
	if req.AppliedDate != "" {
		applied, _ = time.Parse(time.DateOnly, req.AppliedDate)
	}
	a, err := h.Svc.Apply(c.Request.Context(), middleware.UserID(c), app.ApplyInput{
		JobID:       req.JobID,
		Title:       req.Title,
		Company:     req.Company,
		Category:    req.Category,
		AppliedDate: applied,
	})
	if err != nil {
		fail(c, h.Logger, "apply", err)
		return
	}
	response.Success(c, http.StatusCreated, "Application saved", gin.H{"application": a})
}

func (h *ApplicationHandler) List(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, "list_applications", err)
		return
	}
	response.Success(c, http.StatusOK, "Applications", gin.H{"applications": out})
}

func (h *ApplicationHandler) Search(c *gin.Context) {
	out, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), c.Param("userId"), c.Query("q"))
	if err != nil {
		fail(c, h.Logger, "search_applications", err)
		return
	}
	response.Success(c, http.StatusOK, "Applications", gin.H{"applications": out})
}
