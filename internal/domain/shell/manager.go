package shell

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
	"github.com/GriffinCanCode/myvfs/internal/shared/id"
)

// Manager keeps independent sessions over one shared tree.
type Manager struct {
	tree     *vfs.Tree
	opts     Options
	sessions sync.Map // map[string]*Session
	count    int64
	mu       sync.Mutex
	onChange func(active int)
}

// NewManager creates a session manager. opts are applied to every session it
// creates.
func NewManager(tree *vfs.Tree, opts Options) *Manager {
	return &Manager{
		tree: tree,
		opts: opts.withDefaults(),
	}
}

// OnChange registers a callback invoked with the number of active sessions
// whenever a session is created or closed.
func (m *Manager) OnChange(fn func(active int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Tree returns the shared tree.
func (m *Manager) Tree() *vfs.Tree {
	return m.tree
}

// Create starts a new session at the root.
func (m *Manager) Create() SessionInfo {
	sessionID := string(id.NewSessionID())
	session := NewSession(sessionID, m.tree, m.opts)
	m.sessions.Store(sessionID, session)
	m.changed(1)

	m.opts.Logger.Info("session created", zap.String("session", sessionID))
	return session.Info()
}

// Get returns the session with the given id.
func (m *Manager) Get(sessionID string) (*Session, error) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return value.(*Session), nil
}

// Execute runs line in a session. A session that exits is closed.
func (m *Manager) Execute(sessionID, line string) (Result, error) {
	session, err := m.Get(sessionID)
	if err != nil {
		return Result{}, err
	}

	res := session.Execute(line)
	if res.Exited {
		m.Close(sessionID)
	}
	return res, nil
}

// Close removes a session. Closing an unknown session is a no-op.
func (m *Manager) Close(sessionID string) bool {
	if _, loaded := m.sessions.LoadAndDelete(sessionID); !loaded {
		return false
	}
	m.changed(-1)
	m.opts.Logger.Info("session closed", zap.String("session", sessionID))
	return true
}

// List returns every open session ordered by creation. Session ids are
// monotonic ULIDs, so sorting by id is enough.
func (m *Manager) List() []SessionInfo {
	var sessions []SessionInfo
	m.sessions.Range(func(_, value interface{}) bool {
		sessions = append(sessions, value.(*Session).Info())
		return true
	})
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ID < sessions[j].ID
	})
	return sessions
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.count)
}

func (m *Manager) changed(delta int64) {
	m.mu.Lock()
	m.count += delta
	active, fn := int(m.count), m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(active)
	}
}
