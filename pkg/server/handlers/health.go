package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/musicgraph/pkg/driver"
	"github.com/soundprediction/musicgraph/pkg/server/dto"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

const serviceName = "musicgraph"

// GraphStatus is the part of the graph driver the health and stats
// endpoints need.
type GraphStatus interface {
	VerifyConnectivity(ctx context.Context) error
	GetStats(ctx context.Context) (*driver.GraphStats, error)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db        GraphStatus
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db GraphStatus) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startedAt: time.Now(),
	}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /ready. The service is ready once the graph
// database answers a connectivity check.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := gin.H{
		"status":    "ready",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	database := h.checkDatabase(ctx)
	response["checks"] = gin.H{
		"database": database,
		"system": gin.H{
			"status": "healthy",
			"uptime": time.Since(h.startedAt).Round(time.Second).String(),
		},
	}

	if database["status"] != "healthy" {
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// DetailedHealthCheck handles GET /health/detailed - comprehensive health information
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	startTime := time.Now()
	response := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"environment": gin.H{
			"go_version": GoVersion,
		},
	}

	database := h.checkDatabase(ctx)
	checks := gin.H{"database_connectivity": database}
	allHealthy := database["status"] == "healthy"

	if allHealthy {
		statsStart := time.Now()
		stats, err := h.db.GetStats(ctx)
		graph := gin.H{
			"status":      "healthy",
			"duration_ms": time.Since(statsStart).Milliseconds(),
			"operation":   "GetStats",
		}
		if err != nil {
			graph["status"] = "unhealthy"
			graph["error"] = err.Error()
			allHealthy = false
		} else {
			graph["node_count"] = stats.NodeCount
			graph["edge_count"] = stats.EdgeCount
		}
		checks["graph"] = graph
	}

	systemMetrics := getSystemMetrics()
	checks["system"] = gin.H{
		"status":       "healthy",
		"memory_usage": systemMetrics.MemoryUsage,
		"goroutines":   systemMetrics.Goroutines,
		"gc_cycles":    systemMetrics.GCCycles,
		"heap_objects": systemMetrics.HeapObjects,
		"stack_usage":  systemMetrics.StackUsage,
	}
	response["checks"] = checks
	response["metrics"] = gin.H{"response_time_ms": time.Since(startTime).Milliseconds()}

	if !allHealthy {
		response["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Stats handles GET /api/v1/stats
func (h *HealthHandler) Stats(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "unavailable", Message: "graph driver not initialized"})
		return
	}
	stats, err := h.db.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "stats_failed", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{Stats: stats})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) gin.H {
	if h.db == nil {
		return gin.H{
			"status": "unhealthy",
			"error":  "graph driver not initialized",
		}
	}

	start := time.Now()
	err := h.db.VerifyConnectivity(ctx)
	status := gin.H{
		"status":   "healthy",
		"duration": time.Since(start).String(),
	}
	if err != nil {
		status["status"] = "unhealthy"
		status["error"] = err.Error()
		if ctx.Err() != nil {
			status["error"] = "database connection timeout"
		}
	}
	return status
}

// SystemMetrics holds system runtime metrics
type SystemMetrics struct {
	MemoryUsage string `json:"memory_usage"`
	Goroutines  int    `json:"goroutines"`
	GCCycles    uint32 `json:"gc_cycles"`
	HeapObjects uint64 `json:"heap_objects"`
	StackUsage  string `json:"stack_usage"`
}

func getSystemMetrics() SystemMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SystemMetrics{
		MemoryUsage: fmt.Sprintf("%.2f MB", float64(m.Alloc)/(1024*1024)),
		Goroutines:  runtime.NumGoroutine(),
		GCCycles:    m.NumGC,
		HeapObjects: m.HeapObjects,
		StackUsage:  fmt.Sprintf("%.2f MB", float64(m.StackSys)/(1024*1024)),
	}
}
