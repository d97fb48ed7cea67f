package restapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"portfolio_dashboard/internal/app/port"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// ConnectWalletRequest is the body of PUT /session/wallet.
type ConnectWalletRequest struct {
	Address string `json:"address" binding:"required"`
}

// SessionHandler exposes the dashboard session.
type SessionHandler struct {
	session  port.DashboardSession
	logger   port.Logger
	upgrader websocket.Upgrader
}

// NewSessionHandler creates a new SessionHandler. allowedOrigins restricts websocket
// upgrades; an empty list accepts any origin.
func NewSessionHandler(session port.DashboardSession, allowedOrigins []string, logger port.Logger) *SessionHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &SessionHandler{
		session: session,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// GetStateHandler returns the current session state.
func (h *SessionHandler) GetStateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.State())
}

// ConnectHandler selects a wallet and fetches its portfolio.
func (h *SessionHandler) ConnectHandler(c *gin.Context) {
	var req ConnectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "invalid_request", "message": err.Error()}})
		return
	}
	if err := h.session.Connect(c.Request.Context(), req.Address); err != nil {
		writeError(c, req.Address, err)
		return
	}
	c.JSON(http.StatusOK, h.session.State())
}

// DisconnectHandler forgets the wallet.
func (h *SessionHandler) DisconnectHandler(c *gin.Context) {
	h.session.Disconnect()
	c.JSON(http.StatusOK, h.session.State())
}

// RefreshHandler re-fetches the connected wallet.
func (h *SessionHandler) RefreshHandler(c *gin.Context) {
	if err := h.session.Refresh(c.Request.Context()); err != nil {
		writeError(c, h.session.State().WalletAddress, err)
		return
	}
	c.JSON(http.StatusOK, h.session.State())
}

// ClearErrorHandler dismisses the session error.
func (h *SessionHandler) ClearErrorHandler(c *gin.Context) {
	h.session.ClearError()
	c.Status(http.StatusNoContent)
}

// StreamHandler upgrades to a websocket and pushes a JSON state frame after every change.
func (h *SessionHandler) StreamHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "request_id", requestID(c), "error", err)
		return
	}
	defer conn.Close()

	id, updates := h.session.Subscribe()
	defer h.session.Unsubscribe(id)
	h.logger.Debug("Session stream opened", "subscriber", id, "request_id", requestID(c))

	// The read loop only serves control frames and detects the client going away.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case state, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(state); err != nil {
				h.logger.Debug("Session stream write failed", "subscriber", id, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			h.logger.Debug("Session stream closed by client", "subscriber", id)
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
