package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/opportune-api/internal/interface/http"
)

// AuthModule serves registration, login and the password reset flow.
// Public: POST /register, POST /login, POST /logout,
// POST /api/forgot-password, POST /api/reset-password.
// Login and forgot-password share the attempt limiter (keyed per route and IP).
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limiter gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, limiter gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Limiter: limiter}
}

func (m *AuthModule) Register(root, api *gin.RouterGroup) {
	root.POST("/register", m.Handler.Register)
	root.POST("/login", m.Limiter, m.Handler.Login)
	root.POST("/logout", m.Handler.Logout)

	api.POST("/forgot-password", m.Limiter, m.Handler.ForgotPassword)
	api.POST("/reset-password", m.Handler.ResetPassword)
}
