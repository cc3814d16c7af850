package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/middleware"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

// StreamHandler pushes appointment changes of the caller's barbershop over
// a websocket so agenda screens refresh without polling.
type StreamHandler struct {
	hub      *realtime.Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(hub *realtime.Hub, log *zap.Logger) *StreamHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StreamHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the JWT already scopes the stream; browsers connect from the app origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type streamMessage struct {
	Type   string           `json:"type"`
	Change *realtime.Change `json:"change,omitempty"`
}

func (h *StreamHandler) Appointments(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	changes, cancel := h.hub.Subscribe(barbershopID)
	defer cancel()

	log := h.log.With(zap.Uint("barbershop_id", barbershopID))
	log.Debug("appointment stream opened")

	closed := make(chan struct{})
	go h.readPump(conn, closed)

	if err := h.write(conn, streamMessage{Type: "ready"}); err != nil {
		return
	}

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Debug("appointment stream closed by client")
			return

		case <-c.Request.Context().Done():
			return

		case ch, ok := <-changes:
			if !ok {
				return
			}
			if err := h.write(conn, streamMessage{Type: "appointment_changed", Change: &ch}); err != nil {
				log.Debug("appointment stream write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (h *StreamHandler) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) write(conn *websocket.Conn, msg streamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(msg)
}
