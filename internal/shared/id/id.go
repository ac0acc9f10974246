// Package id generates sortable, prefixed identifiers for shell sessions,
// HTTP requests and stream connections.
//
// IDs are ULIDs (26 characters, millisecond timestamp first) behind a short
// prefix, for example sess_01HZX3J4K5M6N7P8Q9R0S1T2V3.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies a shell session
type SessionID string

// RequestID identifies one HTTP request
type RequestID string

// ConnID identifies a WebSocket stream connection
type ConnID string

const (
	SessionPrefix = "sess"
	RequestPrefix = "req"
	ConnPrefix    = "conn"
)

// Generator produces ULIDs from a shared entropy source.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator uses monotonic entropy so IDs minted in the same millisecond
// still sort in creation order.
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(ulid.Monotonic(rand.Reader, 0))
}

// NewGeneratorWithEntropy is mainly for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate returns a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// WithPrefix returns prefix_ULID.
func (g *Generator) WithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate())
}

func NewSessionID() SessionID {
	return SessionID(Default().WithPrefix(SessionPrefix))
}

func NewRequestID() RequestID {
	return RequestID(Default().WithPrefix(RequestPrefix))
}

func NewConnID() ConnID {
	return ConnID(Default().WithPrefix(ConnPrefix))
}

func (id SessionID) String() string { return string(id) }
func (id RequestID) String() string { return string(id) }
func (id ConnID) String() string    { return string(id) }

// Split separates a prefixed id into its prefix and ULID.
func Split(s string) (string, ulid.ULID, error) {
	prefix, raw, ok := strings.Cut(s, "_")
	if !ok {
		return "", ulid.ULID{}, fmt.Errorf("id %q has no prefix", s)
	}
	parsed, err := ulid.Parse(raw)
	if err != nil {
		return "", ulid.ULID{}, fmt.Errorf("id %q: %w", s, err)
	}
	return prefix, parsed, nil
}

// IsSessionID reports whether s looks like a session id.
func IsSessionID(s string) bool {
	prefix, _, err := Split(s)
	return err == nil && prefix == SessionPrefix
}

// Timestamp extracts the creation time of a prefixed id.
func Timestamp(s string) (time.Time, error) {
	_, parsed, err := Split(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
