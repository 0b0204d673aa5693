package api

import (
	"github.com/gin-gonic/gin"

	"renderbot/config"
)

// Paths tells the API where the files shared with the automation run live.
type Paths struct {
	QueueFile    string
	AvatarFile   string
	TrackingFile string
}

// DefaultPaths returns the conventional file locations.
func DefaultPaths() Paths {
	return Paths{
		QueueFile:    config.QueueFile,
		AvatarFile:   config.AvatarFile,
		TrackingFile: config.TrackingFile,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(paths Paths) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterAvatarRoutes(r, paths)
	RegisterQueueRoutes(r, paths)
	RegisterStatusRoutes(r, paths)
	RegisterHealthRoutes(r)
	return r
}
