package service

import (
	"net/url"
	"strings"
)

type GuardConfig struct {
	LoginPath         string
	RegisterPath      string
	LandingPath       string
	ProtectedPrefixes []string
	CallbackParam     string
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		LoginPath:         "/login",
		RegisterPath:      "/register",
		LandingPath:       "/dashboard",
		ProtectedPrefixes: []string{"/dashboard"},
		CallbackParam:     "callbackUrl",
	}
}

type GuardAction int

const (
	GuardPass GuardAction = iota
	GuardRedirect
)

type Decision struct {
	Action   GuardAction
	Location string
}

// AccessGuard decides page navigations from session presence alone.
// It never validates the credential.
type AccessGuard struct {
	config GuardConfig
}

func NewAccessGuard(config GuardConfig) *AccessGuard {
	return &AccessGuard{config: config}
}

func (g *AccessGuard) Decide(path string, hasSession bool) Decision {
	if !hasSession && g.IsProtected(path) {
		q := url.Values{}
		q.Set(g.config.CallbackParam, path)
		return Decision{
			Action:   GuardRedirect,
			Location: g.config.LoginPath + "?" + q.Encode(),
		}
	}

	if hasSession && g.IsAuthOnly(path) {
		return Decision{
			Action:   GuardRedirect,
			Location: g.config.LandingPath,
		}
	}

	return Decision{Action: GuardPass}
}

// IsProtected matches whole path segments, so /dashboardx is not protected.
func (g *AccessGuard) IsProtected(path string) bool {
	for _, prefix := range g.config.ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimRight(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

func (g *AccessGuard) IsAuthOnly(path string) bool {
	path = strings.TrimRight(path, "/")
	return path == g.config.LoginPath || path == g.config.RegisterPath
}
