package agentapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/einkmax/einkctl/internal/domain/panel"
	"github.com/einkmax/einkctl/internal/service/display"
)

// Service abstracts the agent operations the transport layer depends on.
type Service interface {
	// Heartbeat resets the agent watchdog and returns the next deadline.
	Heartbeat(ctx context.Context) time.Time
	// Snapshot reports the agent's view of the hardware and its liveness state.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Snapshot is the agent state returned by the status endpoint.
type Snapshot struct {
	// Displays are the connected outputs at snapshot time.
	Displays []panel.Display `json:"displays"`
	// Touch groups the touch devices by panel.
	Touch *panel.TouchDevices `json:"touch"`
	// Viewers lists running fullscreen viewer processes.
	Viewers []display.ViewerProcess `json:"viewers"`
	// LastHeartbeat is when the watchdog was last reset, zero before the first one.
	LastHeartbeat time.Time `json:"last_heartbeat"`
	// HeartbeatCount is the number of heartbeats received since start.
	HeartbeatCount uint64 `json:"heartbeat_count"`
	// WatchdogTimeout is the configured heartbeat deadline.
	WatchdogTimeout time.Duration `json:"watchdog_timeout"`
	// NextDeadline is when the safety action fires absent further heartbeats.
	NextDeadline time.Time `json:"next_deadline"`
}

// heartbeatResponse is the body returned by the heartbeat endpoint.
type heartbeatResponse struct {
	// NextDeadline is when the safety action fires absent further heartbeats.
	NextDeadline time.Time `json:"next_deadline"`
}

// errorResponse is the body returned on handler failures.
type errorResponse struct {
	// Error is the failure description.
	Error string `json:"error"`
}

// NewRouter builds the agent control API around the provided service.
// The router is meant to be bound to loopback only.
func NewRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/heartbeat", func(c *gin.Context) {
			deadline := svc.Heartbeat(c.Request.Context())

			c.JSON(http.StatusOK, heartbeatResponse{
				NextDeadline: deadline,
			})
		})

		v1.GET("/status", func(c *gin.Context) {
			snapshot, err := svc.Snapshot(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusBadGateway, errorResponse{
					Error: err.Error(),
				})

				return
			}

			c.JSON(http.StatusOK, snapshot)
		})
	}

	return router
}
