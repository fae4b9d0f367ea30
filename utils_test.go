package salesdesk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc", "abc", true},
		{"empty", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"missing token", "Bearer", "", false},
		{"too many parts", "Bearer a b", "", false},
		{"lowercase scheme", "bearer abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBearer(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000/auth/me", JoinURL("http://localhost:8000", "/auth/me"))
	assert.Equal(t, "http://localhost:8000/auth/me", JoinURL("http://localhost:8000/", "/auth/me"))
	assert.Equal(t, "http://localhost:8000/auth/me", JoinURL("http://localhost:8000", "auth/me"))
	assert.Equal(t, "/api/clientes", JoinURL("/api", "/clientes"))
	assert.Equal(t, "http://x", JoinURL("http://x/", ""))
}
