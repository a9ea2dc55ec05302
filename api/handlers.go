package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"pianoarm/capture"
	"pianoarm/fingering"
	"pianoarm/pipeline"
	"pianoarm/preprocess"
)

type chatRequest struct {
	Song              string `json:"song" binding:"required"`
	LiftLowNotes      bool   `json:"lift_low_notes"`
	FilterLowNotes    bool   `json:"filter_low_notes"`
	FilterThreshold   int    `json:"filter_threshold"`
	TransposeUpOctave bool   `json:"transpose_right_octave"`
}

// chat runs the pipeline for a song and returns each hand's
// fingering.Report plus the merged timeline, recording one history entry
// per hand. The reports are encoded with their Go field names; this
// response does not use the field names of the JSON artifact that
// fingering.WriteArtifacts writes.
func (h *handlers) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := pipeline.Run(c.Request.Context(), pipeline.Input{
		SongName: req.Song,
		BaseDir:  h.baseDir,
		LeftOpts: preprocess.Options{
			LiftLowNotes:    req.LiftLowNotes,
			FilterLowNotes:  req.FilterLowNotes,
			FilterThreshold: req.FilterThreshold,
		},
		RightOpts: preprocess.Options{
			TransposeUpOctave: req.TransposeUpOctave,
		},
		PlanParams: fingering.DefaultParams(),
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.history.add(req.Song, "left", len(out.Left.Trajectory), out.Left.MoveCount, out.Left.Infeasible)
	h.history.add(req.Song, "right", len(out.Right.Trajectory), out.Right.MoveCount, out.Right.Infeasible)

	if prev, ok := h.captures.get(req.Song); ok {
		_ = prev.channel.Stop(c.Request.Context())
	}
	h.captures.set(req.Song, &captureSession{
		channel: capture.OpenSimulated(out.Merged, capture.DefaultOptions()),
	})

	c.JSON(http.StatusOK, gin.H{
		"song_name": out.SongName,
		"left":      out.Left,
		"right":     out.Right,
		"merged":    out.Merged,
	})
}

// captureSession tracks one live-capture SSE subscriber's underlying
// capture.Channel so it can be looked up and closed.
type captureSession struct {
	channel *capture.Channel
}

// captureStore is a mutex-guarded song -> captureSession map, guarding
// the same way history.go's store guards its records: concurrent /api/chat
// calls for the same song, or a /api/chat racing a performance stream's
// read, are real goroutine-concurrent accesses from gin's handler pool.
type captureStore struct {
	mu       sync.Mutex
	sessions map[string]*captureSession
}

func newCaptureStore() *captureStore {
	return &captureStore{sessions: map[string]*captureSession{}}
}

func (s *captureStore) get(song string) (*captureSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[song]
	return sess, ok
}

func (s *captureStore) set(song string, sess *captureSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[song] = sess
}

// performanceStream writes one `data: <json>\n\n` line per capture.Event,
// cancelling the underlying capture.Channel the instant the client
// disconnects (spec.md §5's ordering guarantee).
func (h *handlers) performanceStream(c *gin.Context) {
	song := c.Param("song")

	sess, ok := h.captures.get(song)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no active capture session for %q", song)})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			_ = sess.channel.Stop(context.Background())
			return
		case ev, open := <-sess.channel.Events():
			if !open {
				return
			}
			c.SSEvent("message", ev)
			c.Writer.Flush()
		}
	}
}

func (h *handlers) listHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.history.list())
}

func (h *handlers) getHistory(c *gin.Context) {
	r, ok := h.history.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}
