package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/opportune-api/internal/application"
	"github.com/oksasatya/opportune-api/internal/interface/middleware"
	"github.com/oksasatya/opportune-api/pkg/response"
)

type UserHandler struct {
	Svc    *app.UserService
	Logger logrus.FieldLogger
}

func NewUserHandler(svc *app.UserService, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, "get_profile", err)
		return
	}
	c.JSON(http.StatusOK, u.Public())
}

// UploadResume expects a multipart form with the file under "file".
func (h *UserHandler) UploadResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, app.MaxResumeSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input", map[string]string{"file": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, "upload_resume", err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadResume(c.Request.Context(), middleware.UserID(c), c.Param("userId"), app.ResumeFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     f,
	})
	if err != nil {
		fail(c, h.Logger, "upload_resume", err)
		return
	}
	response.Success(c, http.StatusOK, "Resume uploaded", gin.H{"resume_url": url})
}
