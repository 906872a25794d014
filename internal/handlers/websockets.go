package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"todo_list/internal/models"
	"todo_list/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	minInterval      = 10 * time.Millisecond
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms

	msgTypeTasks = "tasks"
	msgTypeError = "error"
	errLoadTasks = "failed to load tasks"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(h.origins) == 0 {
				return true
			}
			return h.originAllowed(origin)
		},
	}
}

// @Summary      Live task list
// @Description  Websocket. Sends {"type":"tasks","data":[...]} on connect and whenever the caller's tasks change.
// @Description  The token may be passed as ?access_token= instead of the Authorization header.
// @Tags         tasks
// @Param        interval      query  string  false  "Poll period, e.g. 500ms (max 10s)"
// @Param        interval_ms   query  int     false  "Poll period in milliseconds"
// @Param        access_token  query  string  false  "Bearer token"
// @Success      101
// @Failure      401  {object}  todo_list.ErrorResponse
// @Router       /api/ws/tasks [get]
// @Security     BearerAuth
func (h *Handler) streamTasks(c *gin.Context) {
	interval := h.parseInterval(c)
	user := currentUser(c)

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err, "user_id", user.ID)
		return
	}
	defer func() { _ = conn.Close() }()

	h.metrics.StreamOpened()
	defer h.metrics.StreamClosed()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	var last []byte
	if last, err = h.sendTasks(ctx, conn, user.ID, nil); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err, "user_id", user.ID)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err, "user_id", user.ID)
				return
			}
		case <-ticker.C:
			if last, err = h.sendTasks(ctx, conn, user.ID, last); err != nil {
				h.log.Infow("ws_write_failed", "err", err, "user_id", user.ID)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			if d := time.Duration(v) * time.Millisecond; d >= minInterval {
				return d
			}
		}
	}

	return h.pollEvery
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// sendTasks loads the owner's tasks and writes them unless they encode to
// exactly prev. It returns the encoding that is now current on the client.
func (h *Handler) sendTasks(ctx context.Context, conn *websocket.Conn, userID int64, prev []byte) ([]byte, error) {
	tasks, err := h.services.Tasks.List(ctx, userID, models.Page{Limit: service.MaxPageLimit})
	if err != nil {
		h.log.Errorw("ws_list_tasks_failed", "err", err, "user_id", userID)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: msgTypeError, Error: errLoadTasks})
		return prev, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	payload, err := json.Marshal(wsEnvelope{Type: msgTypeTasks, Data: tasks})
	if err != nil {
		return prev, err
	}
	if prev != nil && bytes.Equal(payload, prev) {
		return prev, nil
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return prev, err
	}
	return payload, nil
}
