package domain

// Config is the subset of the server configuration the presentation layer needs.
type Config struct {
	CookieName   string
	CookieMaxAge int
	SecureCookie bool
	WebRoot      string
}
