package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"renderbot/queue"
)

// avatarMu serializes read-modify-write of the avatar file across
// concurrent requests.
var avatarMu sync.Mutex

// RegisterAvatarRoutes registers avatar roster endpoints.
func RegisterAvatarRoutes(r *gin.Engine, paths Paths) {
	g := r.Group("/api/avatars")
	g.GET("", func(c *gin.Context) { handleListAvatars(c, paths) })
	g.POST("", func(c *gin.Context) { handleAddAvatar(c, paths) })
	g.DELETE("/:name", func(c *gin.Context) { handleRemoveAvatar(c, paths) })
}

// GET /api/avatars
func handleListAvatars(c *gin.Context, paths Paths) {
	avatarMu.Lock()
	defer avatarMu.Unlock()

	avatars, err := queue.LoadAvatars(paths.AvatarFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if avatars == nil {
		avatars = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"avatars": avatars})
}

type avatarRequest struct {
	Name string `json:"name"`
}

// POST /api/avatars
func handleAddAvatar(c *gin.Context, paths Paths) {
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar name is required"})
		return
	}

	avatarMu.Lock()
	defer avatarMu.Unlock()

	avatars, err := queue.AddAvatar(paths.AvatarFile, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatars": avatars})
}

// DELETE /api/avatars/:name
func handleRemoveAvatar(c *gin.Context, paths Paths) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar name is required"})
		return
	}

	avatarMu.Lock()
	defer avatarMu.Unlock()

	avatars, removed, err := queue.RemoveAvatar(paths.AvatarFile, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "avatar not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatars": avatars})
}
