package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/daftaros/daftar-backend/internal/http/response"
	"github.com/daftaros/daftar-backend/internal/platform/logger"
	"github.com/daftaros/daftar-backend/internal/realtime"
	"github.com/daftaros/daftar-backend/internal/requestdata"
)

type SSEHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub

	mu      sync.Mutex
	clients map[uuid.UUID]*realtime.SSEClient
}

func NewSSEHandler(log *logger.Logger, hub *realtime.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// Stream opens the event stream. Every client is subscribed to its own user
// channel and its role broadcast channel; extra channels can be added through
// Subscribe.
func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	client := h.hub.NewSSEClient(rd.UserID)
	h.hub.AddChannel(client, rd.UserID.String())
	if rd.Role != "" {
		h.hub.AddChannel(client, realtime.RoleChannel(rd.Role))
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, client.ID)
		h.mu.Unlock()
		h.hub.CloseClient(client)
	}()

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

type sseChannelRequest struct {
	ClientID uuid.UUID `json:"client_id" binding:"required"`
	Channel  string    `json:"channel" binding:"required"`
}

func (h *SSEHandler) Subscribe(c *gin.Context) {
	var req sseChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	h.mu.Lock()
	client, ok := h.clients[req.ClientID]
	h.mu.Unlock()
	if !ok {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	h.hub.AddChannel(client, req.Channel)
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *SSEHandler) Unsubscribe(c *gin.Context) {
	var req sseChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	h.mu.Lock()
	client, ok := h.clients[req.ClientID]
	h.mu.Unlock()
	if !ok {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	h.hub.RemoveChannel(client, req.Channel)
	response.RespondOK(c, gin.H{"ok": true})
}
