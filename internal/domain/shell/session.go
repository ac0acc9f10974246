package shell

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
)

// Result is the outcome of one command line.
type Result struct {
	Output []string
	Err    error
	Kind   ErrorKind
	Exited bool
}

// OK reports whether the command succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Recorder receives per-command measurements.
type Recorder interface {
	RecordCommand(command, status string, duration time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordCommand(string, string, time.Duration) {}

// Options configures new sessions.
type Options struct {
	// Home is the directory used by a bare cd and by ~. Defaults to "/".
	Home     string
	Env      LookupFunc
	Logger   *zap.Logger
	Recorder Recorder
}

func (o Options) withDefaults() Options {
	if o.Home == "" {
		o.Home = vfs.Separator
	}
	if o.Env == nil {
		o.Env = OSEnv
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Recorder == nil {
		o.Recorder = noopRecorder{}
	}
	return o
}

// Session is one shell over a shared tree. Commands of a session run one at
// a time.
type Session struct {
	id        string
	tree      *vfs.Tree
	home      string
	env       LookupFunc
	logger    *zap.Logger
	recorder  Recorder
	createdAt time.Time

	mu         sync.Mutex
	cwd        *vfs.Node
	running    bool
	lastActive time.Time
}

// NewSession starts a session at the root of tree.
func NewSession(id string, tree *vfs.Tree, opts Options) *Session {
	opts = opts.withDefaults()
	now := time.Now()
	return &Session{
		id:         id,
		tree:       tree,
		home:       opts.Home,
		env:        opts.Env,
		logger:     opts.Logger.With(zap.String("session", id)),
		recorder:   opts.Recorder,
		createdAt:  now,
		cwd:        tree.Root(),
		running:    true,
		lastActive: now,
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Cwd returns the canonical path of the current directory.
func (s *Session) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureCursor()
	return s.tree.PathOf(s.cwd)
}

// Running reports whether exit has not been executed yet.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Info returns a snapshot of the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureCursor()
	return SessionInfo{
		ID:         s.id,
		Cwd:        s.tree.PathOf(s.cwd),
		Running:    s.running,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
}

// Execute runs one command line. Failures are reported in the Result; once
// the session has exited every further line is ignored.
func (s *Session) Execute(line string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Result{Exited: true}
	}

	start := time.Now()
	s.lastActive = start
	s.ensureCursor()

	args, err := Tokenize(line, s.env)
	if err != nil {
		res := Result{Err: err, Kind: ParseError}
		s.record("parse", res, start)
		return res
	}
	if len(args) == 0 {
		return Result{}
	}

	cmd, known := LookupCommand(args[0])
	var res Result
	if !known {
		res = Result{Err: pathErr(args[0], "", ErrCommandNotFound)}
	} else {
		res = s.dispatch(cmd, args[1:])
	}
	res.Kind = KindOf(res.Err)

	label := "unknown"
	if known {
		label = cmd.String()
	}
	s.record(label, res, start)
	return res
}

func (s *Session) record(command string, res Result, start time.Time) {
	duration := time.Since(start)
	status := "ok"
	if res.Err != nil {
		status = res.Kind.String()
	}
	s.recorder.RecordCommand(command, status, duration)

	fields := []zap.Field{
		zap.String("command", command),
		zap.Duration("duration", duration),
	}
	if res.Err != nil {
		fields = append(fields, zap.String("kind", status), zap.Error(res.Err))
	}
	s.logger.Debug("command executed", fields...)
}

// ensureCursor moves the cursor back to the root when another session removed
// the directory it pointed at.
func (s *Session) ensureCursor() {
	if s.tree.Attached(s.cwd) {
		return
	}
	s.logger.Warn("working directory removed, resetting to root")
	s.cwd = s.tree.Root()
}

// expandHome rewrites a leading ~ to the session home.
func (s *Session) expandHome(p string) string {
	switch {
	case p == "~":
		return s.home
	case strings.HasPrefix(p, "~/"):
		return strings.TrimSuffix(s.home, vfs.Separator) + p[1:]
	default:
		return p
	}
}

// SessionInfo is the public representation of a session
type SessionInfo struct {
	ID         string    `json:"id"`
	Cwd        string    `json:"cwd"`
	Running    bool      `json:"running"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}
