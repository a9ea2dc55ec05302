// Package api exposes the thin HTTP surface this module owns: a chat
// endpoint that runs the pipeline, an SSE stream of live capture events,
// and an in-memory run history. Grounded on the teacher pack's gin usage.
package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin.Engine serving /api/chat, /api/performance,
// and /api/history, backed by a fresh in-memory history store (history.go).
func NewRouter(baseDir string) *gin.Engine {
	r := gin.Default()

	originsEnv := os.Getenv("CORS_ORIGINS")
	if originsEnv == "" {
		originsEnv = "*"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins: strings.Split(originsEnv, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handlers{baseDir: baseDir, history: newStore(), captures: newCaptureStore()}

	group := r.Group("/api")
	{
		group.POST("/chat", h.chat)
		group.GET("/performance/:song/stream", h.performanceStream)
		group.GET("/history", h.listHistory)
		group.GET("/history/:id", h.getHistory)
	}

	return r
}

type handlers struct {
	baseDir  string
	history  *store
	captures *captureStore
}
