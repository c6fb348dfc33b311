package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwikya/authd/internal/container"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	rg.GET("/healthz", m.health)
}

// health pings the shared Postgres pool and Redis client.
func (m *DebugModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"postgres": "ok", "redis": "ok"}
	healthy := true

	if pool := container.GetPGPool(); pool != nil {
		if err := pool.Ping(ctx); err != nil {
			status["postgres"] = err.Error()
			healthy = false
		}
	} else {
		status["postgres"] = "not configured"
	}

	if rdb := container.GetRedis(); rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}
	} else {
		status["redis"] = "not configured"
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
