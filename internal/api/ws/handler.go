package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Frame types
const (
	TypeSnapshot = "snapshot"
	TypePong     = "pong"
	TypeError    = "error"
)

// Frame is a server to client message.
type Frame struct {
	Type     string            `json:"type"`
	Snapshot *desktop.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type clientMessage struct {
	Type string `json:"type"`
}

// Handler streams desktop snapshots over WebSocket connections
type Handler struct {
	desktops *desktop.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(desktops *desktop.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		desktops: desktops,
		metrics:  metrics,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Origins are enforced by the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection upgrades the request and streams the session's
// snapshots until either side goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	session, err := h.desktops.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	log := h.logger.With(
		zap.String("conn", uuid.NewString()),
		zap.String("session", session.ID()),
	)
	log.Info("stream connected")
	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	updates, cancel := session.Subscribe(sendBuffer)
	defer cancel()

	replies := make(chan Frame, sendBuffer)
	done := make(chan struct{})
	defer close(done)

	if snap, err := session.Snapshot(); err == nil {
		replies <- Frame{Type: TypeSnapshot, Snapshot: &snap}
	}

	go h.writeLoop(conn, log, updates, replies, done)
	h.readLoop(conn, log, session, replies)
	log.Info("stream disconnected")
}

// readLoop handles client frames until the connection fails.
func (h *Handler) readLoop(conn *websocket.Conn, log *zap.Logger, session *desktop.Session, replies chan<- Frame) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			enqueue(replies, Frame{Type: TypeError, Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.record("in", msg.Type)
			enqueue(replies, Frame{Type: TypePong})
		case "snapshot":
			h.record("in", msg.Type)
			snap, err := session.Snapshot()
			if err != nil {
				enqueue(replies, Frame{Type: TypeError, Error: err.Error()})
				continue
			}
			enqueue(replies, Frame{Type: TypeSnapshot, Snapshot: &snap})
		default:
			h.record("in", "unknown")
			enqueue(replies, Frame{Type: TypeError, Error: "unknown message type"})
		}
	}
}

// writeLoop is the only writer on conn. It closes the connection when the
// session ends or the reader is done.
func (h *Handler) writeLoop(conn *websocket.Conn, log *zap.Logger, updates <-chan desktop.Snapshot, replies <-chan Frame, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	var order versionGate
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		var frame Frame
		select {
		case snap, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			frame = Frame{Type: TypeSnapshot, Snapshot: &snap}
		case frame = <-replies:
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		case <-done:
			return
		}

		if !order.allow(frame) {
			continue
		}

		data, err := sonic.Marshal(frame)
		if err != nil {
			log.Error("failed to encode frame", zap.Error(err))
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug("websocket write failed", zap.Error(err))
			return
		}
		h.record("out", frame.Type)
	}
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

// versionGate keeps snapshot frames in version order. Snapshots reach the
// writer from two channels, so an older one can arrive after a newer one.
type versionGate struct {
	last uint64
}

// allow reports whether f may be written. Re-sending the current version
// is allowed; going backwards is not.
func (g *versionGate) allow(f Frame) bool {
	if f.Snapshot == nil {
		return true
	}
	if f.Snapshot.Version < g.last {
		return false
	}
	g.last = f.Snapshot.Version
	return true
}

// enqueue drops the frame when the client is not keeping up.
func enqueue(replies chan<- Frame, f Frame) {
	select {
	case replies <- f:
	default:
	}
}
