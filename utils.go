package salesdesk

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	// SessionCookieName is the HttpOnly cookie that carries the session in web mode.
	SessionCookieName = "token"
	// SessionMaxAge is the lifetime of a session credential, in seconds.
	SessionMaxAge = 60 * 60 * 24
)

func JsonPrint(w io.Writer, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "error marshaling: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(b))
}

// ParseBearer extracts the token from an Authorization header value.
// Anything other than exactly "Bearer <token>" is rejected.
func ParseBearer(header string) (string, bool) {
	split := strings.Split(header, " ")
	if len(split) != 2 {
		return "", false
	}

	authType, token := split[0], split[1]
	if authType != "Bearer" || token == "" {
		return "", false
	}

	return token, true
}

// JoinURL concatenates a base URL and an absolute resource path without
// doubling or dropping the separating slash.
func JoinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
