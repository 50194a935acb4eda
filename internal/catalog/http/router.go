package http

import "github.com/gin-gonic/gin"

// Register attaches the collection routes to the given router group.
func (h *Handler[T]) Register(rg *gin.RouterGroup) {
	rg.GET("", h.get)
	rg.POST("", h.create)
	rg.PUT("", h.update)
	rg.DELETE("", h.delete)
	rg.OPTIONS("", Preflight)
}
