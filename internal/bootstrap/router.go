package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tearaglass/godscruiseline/internal/access"
	httpapi "github.com/tearaglass/godscruiseline/internal/api/http"
	"github.com/tearaglass/godscruiseline/internal/api/http/middleware"
	"github.com/tearaglass/godscruiseline/internal/api/http/routes"
	cataloghttp "github.com/tearaglass/godscruiseline/internal/catalog/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Catalog     *Catalog
	Resolver    *access.Resolver
	// CORSOrigins restricts cross-origin callers; empty allows any origin.
	CORSOrigins []string
	// AuthRatePerMinute and AuthBurst bound passphrase attempts per client; 0 disables.
	AuthRatePerMinute int
	AuthBurst         int
	Logger            *zap.Logger
	// Registry receives the HTTP metrics; nil skips /metrics.
	Registry *prometheus.Registry
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(cataloghttp.MethodNotAllowed)
	r.NoRoute(cataloghttp.NotFound)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(log))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	if dep.Registry != nil {
		r.Use(middleware.NewMetrics(dep.Registry).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Registry, promhttp.HandlerOpts{})))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Catalog.Driver, dep.Catalog.Records)
	healthHandler.RegisterRoutes(r)

	var limiter *middleware.RateLimiter
	if dep.AuthRatePerMinute > 0 {
		limiter = middleware.NewRateLimiter(dep.AuthRatePerMinute, dep.AuthBurst)
	}

	routes.RegisterAPI(r, routes.APIDeps{
		Records:     dep.Catalog.Records,
		Projects:    dep.Catalog.Projects,
		Access:      access.NewHandler(dep.Resolver, log),
		AuthLimiter: limiter,

		RecordEvents:  dep.Catalog.RecordEvents,
		ProjectEvents: dep.Catalog.ProjectEvents,
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
