package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tearaglass/godscruiseline/internal/access"
	"github.com/tearaglass/godscruiseline/internal/api/http/middleware"
	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
	cataloghttp "github.com/tearaglass/godscruiseline/internal/catalog/http"
	"github.com/tearaglass/godscruiseline/internal/catalog/service"
)

type APIDeps struct {
	Records  *service.Service[domain.Record]
	Projects *service.Service[domain.Project]
	// RecordEvents and ProjectEvents, when set, expose <collection>/events streams.
	RecordEvents  cataloghttp.Subscriber
	ProjectEvents cataloghttp.Subscriber
	Access        *access.Handler
	// AuthLimiter throttles passphrase attempts; nil disables it.
	AuthLimiter *middleware.RateLimiter
}

// RegisterAPI mounts the resource collections and the access tier endpoint under /api.
func RegisterAPI(r *gin.Engine, dep APIDeps) {
	api := r.Group("/api")

	records := api.Group("/records")
	projects := api.Group("/projects")
	cataloghttp.NewHandler[domain.Record](dep.Records).Register(records)
	cataloghttp.NewHandler[domain.Project](dep.Projects).Register(projects)
	if dep.RecordEvents != nil {
		cataloghttp.NewStreamHandler(dep.RecordEvents).Register(records)
	}
	if dep.ProjectEvents != nil {
		cataloghttp.NewStreamHandler(dep.ProjectEvents).Register(projects)
	}

	var limits []gin.HandlerFunc
	if dep.AuthLimiter != nil {
		limits = append(limits, dep.AuthLimiter.Handler())
	}
	dep.Access.Register(api.Group("/auth"), limits...)
}
