package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	healthv1 "experimentation-control-plane/api/health/v1"
)

// ReadinessChecker is the readiness probe behind /readyz. *healthhandler.Server satisfies it.
type ReadinessChecker interface {
	Check(ctx context.Context) (healthv1.ServingStatus, map[string]string)
}

// NewOpsRouter returns the ops HTTP router: /healthz (liveness), /readyz (dependency checks)
// and /metrics (Prometheus). ready may be nil, in which case /readyz mirrors /healthz.
func NewOpsRouter(serviceName string, ready ReadinessChecker) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": healthv1.ServingStatus_SERVING})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if ready == nil {
			c.JSON(http.StatusOK, gin.H{"status": healthv1.ServingStatus_SERVING})
			return
		}
		st, checks := ready.Check(c.Request.Context())
		code := http.StatusOK
		if st != healthv1.ServingStatus_SERVING {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": st, "checks": checks})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
