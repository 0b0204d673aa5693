package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"renderbot/tracking"
)

// RegisterStatusRoutes registers read-only run status endpoints.
func RegisterStatusRoutes(r *gin.Engine, paths Paths) {
	r.GET("/api/status", func(c *gin.Context) { handleStatus(c, paths) })
}

// GET /api/status reads the tracking file directly so the UI can report
// progress without sharing a process with the automation run.
func handleStatus(c *gin.Context, paths Paths) {
	report, err := tracking.ReadReport(paths.TrackingFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
