package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/opportune-api/internal/interface/http"
)

// ListingModule proxies the public job boards, rate limited per IP.
type ListingModule struct {
	Handler *handlers.ListingHandler
	Limiter gin.HandlerFunc
}

func NewListingModule(h *handlers.ListingHandler, limiter gin.HandlerFunc) *ListingModule {
	return &ListingModule{Handler: h, Limiter: limiter}
}

func (m *ListingModule) Register(_, api *gin.RouterGroup) {
	api.GET("/fetch-jobs", m.Limiter, m.Handler.Jobs)
	api.GET("/internships", m.Limiter, m.Handler.Internships)
	api.GET("/workshops", m.Limiter, m.Handler.Workshops)
}
