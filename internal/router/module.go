package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that registers its routes.
// root serves unprefixed paths, api is mounted at /api.
type Module interface {
	Register(root, api *gin.RouterGroup)
}
