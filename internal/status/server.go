// Package status serves a running simulation's benchmarks over HTTP.
package status

import (
	"expvar"
	"net/http"
	_ "net/http/pprof"

	"github.com/gin-gonic/gin"

	"github.com/timpalpant/hilo/bench"
)

// Controller is the part of a hilo.Pool the status server needs.
type Controller interface {
	Stop()
	IsActive() bool
	ActiveWorkers() []bool
	Aggregator() *bench.Aggregator
}

type workerStatus struct {
	bench.Slot
	Active bool `json:"active"`
}

type statsResponse struct {
	Active bool `json:"active"`
	bench.Stats
}

// NewRouter returns a gin router exposing:
//
//	GET  /stats    aggregate throughput, recomputed on each request
//	GET  /workers  per-worker summaries
//	POST /stop     request cancellation
//	GET  /debug/*  expvar and pprof
func NewRouter(c Controller) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/stats", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, statsResponse{
			Active: c.IsActive(),
			Stats:  c.Aggregator().Snapshot(),
		})
	})

	r.GET("/workers", func(ctx *gin.Context) {
		slots := c.Aggregator().Slots()
		active := c.ActiveWorkers()
		result := make([]workerStatus, len(slots))
		for i, slot := range slots {
			result[i] = workerStatus{Slot: slot, Active: i < len(active) && active[i]}
		}
		ctx.JSON(http.StatusOK, result)
	})

	r.POST("/stop", func(ctx *gin.Context) {
		c.Stop()
		ctx.JSON(http.StatusAccepted, gin.H{"stopping": true})
	})

	r.GET("/debug/*path", gin.WrapH(http.DefaultServeMux))
	return r
}

// PublishExpvar exports the pool's aggregate stats under name.
func PublishExpvar(name string, c Controller) {
	expvar.Publish(name, expvar.Func(func() interface{} {
		return c.Aggregator().Snapshot()
	}))
}
