package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/opportune-api/internal/application"
	"github.com/oksasatya/opportune-api/pkg/response"
	"github.com/oksasatya/opportune-api/pkg/validation"
)

const msgInternal = "Internal server error"

var errorTable = []struct {
	err     error
	status  int
	message string
}{
	{app.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{app.ErrEmailNotRegistered, http.StatusNotFound, "Email not registered"},
	{app.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{app.ErrEmailTaken, http.StatusConflict, "Email already registered"},
	{app.ErrInvalidResetToken, http.StatusBadRequest, "Invalid or expired token"},
	{app.ErrPasswordTooLong, http.StatusBadRequest, "Password must be at most 72 bytes"},
	{app.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{app.ErrAlreadyApplied, http.StatusConflict, "Already applied to this listing"},
	{app.ErrInvalidResume, http.StatusBadRequest, "Resume must be a pdf, doc or docx file of at most 5 MB"},
	{app.ErrUpstream, http.StatusBadGateway, "Upstream service unavailable"},
	{app.ErrNotConfigured, http.StatusServiceUnavailable, "Service not configured"},
}

// toHTTPError maps service errors to a status and a client-safe message.
func toHTTPError(err error) (int, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.message
		}
	}
	return http.StatusInternalServerError, msgInternal
}

// fail writes the mapped error; unexpected errors are logged with the request id.
func fail(c *gin.Context, logger logrus.FieldLogger, op string, err error) {
	status, msg := toHTTPError(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"op":         op,
		}).Error("request failed")
	}
	response.Error(c, status, msg, nil)
}

func invalidPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "Invalid input", validation.ToDetails(err))
}
