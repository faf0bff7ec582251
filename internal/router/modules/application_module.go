package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/opportune-api/internal/interface/http"
)

type ApplicationModule struct {
	Handler *handlers.ApplicationHandler
	Auth    gin.HandlerFunc
}

func NewApplicationModule(h *handlers.ApplicationHandler, auth gin.HandlerFunc) *ApplicationModule {
	return &ApplicationModule{Handler: h, Auth: auth}
}

func (m *ApplicationModule) Register(_, api *gin.RouterGroup) {
	auth := api.Group("/", m.Auth)
	{
		auth.POST("/apply", m.Handler.Apply)
		auth.GET("/applied/:userId", m.Handler.List)
		auth.GET("/applied/:userId/search", m.Handler.Search)
	}
}
