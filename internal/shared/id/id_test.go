package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedIDs(t *testing.T) {
	tests := []struct {
		prefix string
		id     string
	}{
		{"sess", NewSessionID().String()},
		{"req", NewRequestID().String()},
		{"conn", NewConnID().String()},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			require.True(t, strings.HasPrefix(tt.id, tt.prefix+"_"), tt.id)

			prefix, parsed, err := Split(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
			assert.Len(t, parsed.String(), 26)
		})
	}
}

func TestIsSessionID(t *testing.T) {
	assert.True(t, IsSessionID(NewSessionID().String()))
	assert.False(t, IsSessionID(NewRequestID().String()))
	assert.False(t, IsSessionID(""))
	assert.False(t, IsSessionID("sess_not-a-ulid"))
	assert.False(t, IsSessionID("01HZX3J4K5M6N7P8Q9R0S1T2V3"))
}

func TestTimestamp(t *testing.T) {
	before := time.Now()
	sid := NewSessionID().String()
	after := time.Now()

	ts, err := Timestamp(sid)
	require.NoError(t, err)

	// ULIDs carry millisecond precision.
	assert.GreaterOrEqual(t, ts.UnixMilli(), before.UnixMilli())
	assert.LessOrEqual(t, ts.UnixMilli(), after.UnixMilli())

	_, err = Timestamp("bogus")
	assert.Error(t, err)
}

func TestMonotonicOrdering(t *testing.T) {
	gen := NewGenerator()

	prev := gen.Generate().String()
	for i := 0; i < 1000; i++ {
		next := gen.Generate().String()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	ids := make(chan string, goroutines*perGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ids <- gen.WithPrefix(SessionPrefix)
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestDefaultGenerator(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func BenchmarkWithPrefix(b *testing.B) {
	gen := NewGenerator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.WithPrefix(SessionPrefix)
	}
}
