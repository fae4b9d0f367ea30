package environment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type nilIDHost struct{}

func (nilIDHost) ExtensionID() string { return "" }

func TestIsExtension(t *testing.T) {
	tests := []struct {
		name string
		host Host
		want bool
	}{
		{"no host", nil, false},
		{"host without id", nilIDHost{}, false},
		{"chrome id", StaticHost("abcdefghijklmnopabcdefghijklmnop"), true},
		{"gecko id", StaticHost("salesdesk@totegamma.net"), true},
		{"whitespace", StaticHost("abc def"), false},
		{"too long", StaticHost(strings.Repeat("a", 129)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExtension(tt.host))
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, ModeWeb, Detect(nil))
	assert.Equal(t, ModeExtension, Detect(StaticHost("abcdefghijklmnopabcdefghijklmnop")))
	assert.Equal(t, "extension", ModeExtension.String())
	assert.Equal(t, "web", ModeWeb.String())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(ExtensionIDEnv, "abcdefghijklmnopabcdefghijklmnop")
	h := FromEnv()
	if assert.NotNil(t, h) {
		assert.Equal(t, "abcdefghijklmnopabcdefghijklmnop", h.ExtensionID())
	}
	assert.Equal(t, ModeExtension, Detect(h))
}

func TestFromEnvEmptyValue(t *testing.T) {
	t.Setenv(ExtensionIDEnv, "")
	assert.Equal(t, ModeWeb, Detect(FromEnv()))
}
