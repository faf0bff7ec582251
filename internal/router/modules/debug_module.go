package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/opportune-api/internal/interface/http"
)

// DebugModule exposes GET /healthz and, rate limited, GET /api/debug/vars (expvar).
type DebugModule struct {
	Health  *handlers.HealthHandler
	Limiter gin.HandlerFunc
}

func NewDebugModule(h *handlers.HealthHandler, limiter gin.HandlerFunc) *DebugModule {
	return &DebugModule{Health: h, Limiter: limiter}
}

func (m *DebugModule) Register(root, api *gin.RouterGroup) {
	root.GET("/healthz", m.Health.Healthz)
	api.GET("/debug/vars", m.Limiter, gin.WrapH(expvar.Handler()))
}
