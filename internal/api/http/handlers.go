package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/myvfs/internal/domain/shell"
	"github.com/GriffinCanCode/myvfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/myvfs/internal/shared/id"
)

// Service identifies the API in status responses.
const (
	Service = "myvfs"
	Version = "0.1.0"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions *shell.Manager
	metrics  *monitoring.Metrics
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(sessions *shell.Manager, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{sessions: sessions, metrics: metrics}
}

// ExecRequest is the body of an exec call.
type ExecRequest struct {
	Line string `json:"line"`
}

// ExecResponse reports one executed command line. Cwd is empty once the
// session has exited.
type ExecResponse struct {
	Output []string `json:"output"`
	Error  string   `json:"error,omitempty"`
	Kind   string   `json:"kind,omitempty"`
	Exited bool     `json:"exited"`
	Cwd    string   `json:"cwd,omitempty"`
}

// NewExecResponse converts a shell result.
func NewExecResponse(res shell.Result, cwd string) ExecResponse {
	resp := ExecResponse{
		Output: res.Output,
		Kind:   res.Kind.String(),
		Exited: res.Exited,
		Cwd:    cwd,
	}
	if resp.Output == nil {
		resp.Output = []string{}
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	return resp
}

// Register mounts the handlers on router.
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	sessions := router.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("", h.ListSessions)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.CloseSession)
	sessions.POST("/:id/exec", h.Exec)
}

// Root handles the status check
func (h *Handlers) Root(c *gin.Context) {
	body := gin.H{
		"status":  "online",
		"service": Service,
		"version": Version,
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": h.sessions.Count(),
		"nodes":    h.sessions.Tree().Len(),
	})
}

// CreateSession opens a session at the root.
func (h *Handlers) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.sessions.Create())
}

// ListSessions lists open sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.sessions.List()
	if sessions == nil {
		sessions = []shell.SessionInfo{}
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one session
func (h *Handlers) GetSession(c *gin.Context) {
	session, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Info())
}

// CloseSession closes a session
func (h *Handlers) CloseSession(c *gin.Context) {
	sessionID := c.Param("id")
	if !validSessionID(c, sessionID) {
		return
	}
	if !h.sessions.Close(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": shell.ErrSessionNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Exec runs one command line in a session. Command failures are part of a
// 200 response; only a bad request or an unknown session is an HTTP error.
func (h *Handlers) Exec(c *gin.Context) {
	sessionID := c.Param("id")
	if !validSessionID(c, sessionID) {
		return
	}

	var req ExecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	res, err := h.sessions.Execute(sessionID, req.Line)
	if err != nil {
		writeSessionError(c, err)
		return
	}

	cwd := ""
	if !res.Exited {
		if session, err := h.sessions.Get(sessionID); err == nil {
			cwd = session.Cwd()
		}
	}
	c.JSON(http.StatusOK, NewExecResponse(res, cwd))
}

func (h *Handlers) lookup(c *gin.Context) (*shell.Session, bool) {
	sessionID := c.Param("id")
	if !validSessionID(c, sessionID) {
		return nil, false
	}
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		writeSessionError(c, err)
		return nil, false
	}
	return session, true
}

func validSessionID(c *gin.Context, sessionID string) bool {
	if !id.IsSessionID(sessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return false
	}
	return true
}

func writeSessionError(c *gin.Context, err error) {
	if errors.Is(err, shell.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
