package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/requestdata"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub

	mu      sync.RWMutex
	clients map[uuid.UUID]*sse.SSEClient // keyed by user id, one stream each
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*sse.SSEClient),
	}
}

func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	userID := rd.UserID

	h.mu.Lock()
	if existing, ok := h.clients[userID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, userID)
	}
	client := h.hub.NewSSEClient(userID)
	h.clients[userID] = client
	h.mu.Unlock()

	// Subscribe to any course channels requested up front.
	if courseID, err := uuid.Parse(c.Query("course_id")); err == nil {
		h.hub.AddChannel(client, sse.CourseChannel(courseID))
	}

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	// A reconnect may have replaced this client already; only evict the
	// registration if it is still ours.
	h.mu.Lock()
	if h.clients[userID] == client {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

func (h *SSEHandler) clientFor(c *gin.Context) (*sse.SSEClient, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return nil, false
	}
	h.mu.RLock()
	client, ok := h.clients[rd.UserID]
	h.mu.RUnlock()
	if !ok {
		RespondError(c, http.StatusConflict, "no_active_stream", nil)
		return nil, false
	}
	return client, true
}

func (h *SSEHandler) Subscribe(c *gin.Context) {
	client, ok := h.clientFor(c)
	if !ok {
		return
	}
	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		RespondError(c, http.StatusBadRequest, "invalid_channel", err)
		return
	}
	h.hub.AddChannel(client, req.Channel)
	RespondOK(c, gin.H{"status": "subscribed", "channel": req.Channel})
}

func (h *SSEHandler) Unsubscribe(c *gin.Context) {
	client, ok := h.clientFor(c)
	if !ok {
		return
	}
	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		RespondError(c, http.StatusBadRequest, "invalid_channel", err)
		return
	}
	h.hub.RemoveChannel(client, req.Channel)
	RespondOK(c, gin.H{"status": "unsubscribed", "channel": req.Channel})
}
