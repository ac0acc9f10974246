package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserHome(t *testing.T) {
	tests := []struct {
		user string
		want string
	}{
		{"alice", "/home/alice"},
		{"", "/"},
		{"..", "/"},
		{"a/b", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UserHome(tt.user), tt.user)
	}
}

func TestStandardDirectories(t *testing.T) {
	assert.Equal(t, []string{"/home", "/tmp", "/etc", "/var", "/var/log"}, StandardDirectories(""))

	dirs := StandardDirectories("bob")
	assert.Contains(t, dirs, "/home/bob")
	assert.Contains(t, dirs, "/home/bob/projects")
	assert.Len(t, dirs, 9)
}
