package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/opportune-api/internal/interface/http"
)

// UserModule
// Public: GET /api/profile/:userId
// Protected: POST /api/profile/:userId/resume (limited per user)
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	Limiter gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth, limiter gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Limiter: limiter}
}

func (m *UserModule) Register(_, api *gin.RouterGroup) {
	api.GET("/profile/:userId", m.Handler.GetProfile)
	api.POST("/profile/:userId/resume", m.Auth, m.Limiter, m.Handler.UploadResume)
}
