// Package environment decides whether the code runs inside an extension
// host or as an ordinary web client. The answer is computed once at startup
// and handed to the constructors that need it.
package environment

import (
	"os"
	"unicode"
)

// ExtensionIDEnv names the variable through which an embedding host
// announces its extension identifier.
const ExtensionIDEnv = "SALESDESK_EXTENSION_ID"

const maxExtensionIDLength = 128

type Mode int

const (
	ModeWeb Mode = iota
	ModeExtension
)

func (m Mode) String() string {
	switch m {
	case ModeWeb:
		return "web"
	case ModeExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// Host is the extension-host runtime object. It is absent (nil) in a
// browser tab and during server-side rendering.
type Host interface {
	ExtensionID() string
}

// StaticHost is a Host with a fixed identifier.
type StaticHost string

func (h StaticHost) ExtensionID() string { return string(h) }

// ValidExtensionID reports whether id looks like an extension identifier.
func ValidExtensionID(id string) bool {
	if id == "" || len(id) > maxExtensionIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsExtension is true iff a host is present and exposes a valid id.
func IsExtension(h Host) bool {
	if h == nil {
		return false
	}
	return ValidExtensionID(h.ExtensionID())
}

func Detect(h Host) Mode {
	if IsExtension(h) {
		return ModeExtension
	}
	return ModeWeb
}

// FromEnv returns the host announced through the process environment, or
// nil when there is none.
func FromEnv() Host {
	id, ok := os.LookupEnv(ExtensionIDEnv)
	if !ok {
		return nil
	}
	return StaticHost(id)
}
