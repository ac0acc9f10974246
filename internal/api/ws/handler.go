package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/myvfs/internal/domain/shell"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/myvfs/internal/shared/id"
)

const (
	maxMessageSize = 64 << 10
	writeWait      = 10 * time.Second
)

// Message types
const (
	TypeExec   = "exec"
	TypePing   = "ping"
	TypePong   = "pong"
	TypeSystem = "system"
	TypeResult = "result"
	TypeError  = "error"
)

// Request is a client message.
type Request struct {
	Type string `json:"type"`
	Line string `json:"line,omitempty"`
}

// Response is a server message.
type Response struct {
	Type    string   `json:"type"`
	Session string   `json:"session,omitempty"`
	Message string   `json:"message,omitempty"`
	Output  []string `json:"output,omitempty"`
	Error   string   `json:"error,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Exited  bool     `json:"exited,omitempty"`
	Cwd     string   `json:"cwd,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced by the HTTP middleware
	},
}

// Handler runs one shell session per WebSocket connection.
type Handler struct {
	sessions *shell.Manager
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler. metrics may be nil.
func NewHandler(sessions *shell.Manager, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sessions: sessions, metrics: metrics, logger: logger}
}

// HandleConnection upgrades the request and serves a session until the
// client disconnects or runs exit.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	connID := id.NewConnID()
	info := h.sessions.Create()
	logger := h.logger.With(zap.String("conn", connID.String()), zap.String("session", info.ID))
	defer h.sessions.Close(info.ID)

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}
	logger.Info("websocket connected")

	if err := h.send(conn, Response{
		Type:    TypeSystem,
		Session: info.ID,
		Message: "connected; type 'help' for commands",
		Cwd:     info.Cwd,
	}); err != nil {
		return
	}

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read error", zap.Error(err))
			}
			break
		}
		h.count("in", req.Type)

		switch req.Type {
		case TypeExec:
			resp, exited := h.exec(info.ID, req.Line)
			if err := h.send(conn, resp); err != nil {
				return
			}
			if exited {
				h.closeNormal(conn)
				logger.Info("session exited")
				return
			}
		case TypePing:
			if err := h.send(conn, Response{Type: TypePong}); err != nil {
				return
			}
		default:
			if err := h.send(conn, Response{Type: TypeError, Message: "unknown message type"}); err != nil {
				return
			}
		}
	}
	logger.Info("websocket disconnected")
}

func (h *Handler) exec(sessionID, line string) (Response, bool) {
	res, err := h.sessions.Execute(sessionID, line)
	if err != nil {
		return Response{Type: TypeError, Message: err.Error()}, true
	}

	resp := Response{
		Type:   TypeResult,
		Output: res.Output,
		Kind:   res.Kind.String(),
		Exited: res.Exited,
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	if !res.Exited {
		if session, err := h.sessions.Get(sessionID); err == nil {
			resp.Cwd = session.Cwd()
		}
	}
	return resp, res.Exited
}

func (h *Handler) send(conn *websocket.Conn, resp Response) error {
	h.count("out", resp.Type)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
		return err
	}
	return nil
}

func (h *Handler) closeNormal(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "exit")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (h *Handler) count(direction, msgType string) {
	if h.metrics == nil {
		return
	}
	switch msgType {
	case TypeExec, TypePing, TypePong, TypeSystem, TypeResult, TypeError:
	default:
		msgType = "unknown"
	}
	h.metrics.RecordWSMessage(direction, msgType)
}
