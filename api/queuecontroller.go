package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"renderbot/queue"
	"renderbot/types"
)

var queueMu sync.Mutex

// RegisterQueueRoutes registers batch submission endpoints.
func RegisterQueueRoutes(r *gin.Engine, paths Paths) {
	g := r.Group("/api/queue")
	g.POST("/start", func(c *gin.Context) { handleStartBatch(c, paths) })
	g.GET("", func(c *gin.Context) { handlePendingBatch(c, paths) })
}

type startResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Accepted int    `json:"accepted,omitempty"`
	Dropped  int    `json:"dropped,omitempty"`
	Error    string `json:"error,omitempty"`
}

// POST /api/queue/start validates a batch and writes it to the queue
// file for the next automation run. Items with empty scripts are dropped;
// an unknown avatar or bad config rejects the whole batch.
func handleStartBatch(c *gin.Context, paths Paths) {
	var batch types.QueueBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, startResponse{Message: "invalid JSON payload", Error: err.Error()})
		return
	}

	// Blank fields get the same defaults the batch loader applies, so a
	// minimal payload of scripts alone is a valid batch.
	queue.ApplyDefaults(&batch)

	queueMu.Lock()
	defer queueMu.Unlock()

	if _, err := os.Stat(paths.QueueFile); err == nil {
		c.JSON(http.StatusConflict, startResponse{Message: "a batch is already queued"})
		return
	}

	avatars, err := queue.LoadAvatars(paths.AvatarFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, startResponse{Message: "load avatars", Error: err.Error()})
		return
	}
	if !avatarKnown(avatars, batch.Avatar) {
		c.JSON(http.StatusBadRequest, startResponse{Message: "unknown avatar: " + batch.Avatar})
		return
	}
	if err := batch.Config.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, startResponse{Message: "invalid config", Error: err.Error()})
		return
	}

	// The UI sends every row it has; blank scripts are a user oversight,
	// not a reason to reject the batch.
	kept := batch.Items[:0]
	dropped := 0
	for _, it := range batch.Items {
		if strings.TrimSpace(it.Script) == "" {
			dropped++
			continue
		}
		kept = append(kept, it)
	}
	batch.Items = kept
	if len(batch.Items) == 0 {
		c.JSON(http.StatusBadRequest, startResponse{Message: "batch has no items with scripts"})
		return
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, startResponse{Message: "encode batch", Error: err.Error()})
		return
	}
	if err := os.WriteFile(paths.QueueFile, data, 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, startResponse{Message: "write queue file", Error: err.Error()})
		return
	}

	log.Printf("📥 Queued batch %q: %d item(s), %d dropped", batch.ProjectName, len(batch.Items), dropped)
	c.JSON(http.StatusAccepted, startResponse{
		Success:  true,
		Message:  "batch queued",
		Accepted: len(batch.Items),
		Dropped:  dropped,
	})
}

// GET /api/queue reports the batch waiting for pickup, if any.
func handlePendingBatch(c *gin.Context, paths Paths) {
	queueMu.Lock()
	defer queueMu.Unlock()

	data, err := os.ReadFile(paths.QueueFile)
	if os.IsNotExist(err) {
		c.JSON(http.StatusOK, gin.H{"pending": false})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var batch types.QueueBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "queue file is corrupt: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": true, "batch": batch})
}

func avatarKnown(avatars []string, name string) bool {
	for _, a := range avatars {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}
