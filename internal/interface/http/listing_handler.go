package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/opportune-api/internal/application"
	"github.com/oksasatya/opportune-api/internal/domain/entity"
	"github.com/oksasatya/opportune-api/pkg/response"
)

type ListingHandler struct {
	Svc    *app.ListingService
	Logger logrus.FieldLogger
}

func NewListingHandler(svc *app.ListingService, logger logrus.FieldLogger) *ListingHandler {
	return &ListingHandler{Svc: svc, Logger: logger}
}

func (h *ListingHandler) Jobs(c *gin.Context) {
	out, err := h.Svc.FetchJobs(c.Request.Context(), c.Query("what"), c.Query("where"))
	h.write(c, "jobs", out, err)
}

func (h *ListingHandler) Internships(c *gin.Context) {
	out, err := h.Svc.FetchInternships(c.Request.Context(), c.Query("keywords"), c.Query("location"))
	h.write(c, "internships", out, err)
}

func (h *ListingHandler) Workshops(c *gin.Context) {
	out, err := h.Svc.FetchWorkshops(c.Request.Context())
	h.write(c, "workshops", out, err)
}

func (h *ListingHandler) write(c *gin.Context, kind string, out []entity.Listing, err error) {
	if errors.Is(err, app.ErrUpstream) {
		response.Error(c, http.StatusBadGateway, "Failed to fetch "+kind, nil)
		return
	}
	if err != nil {
		fail(c, h.Logger, "fetch_"+kind, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{kind: out})
}
