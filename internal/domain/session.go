package domain

// SessionAction tells the presentation layer what to do with the session cookie.
type SessionAction int

const (
	SessionKeep SessionAction = iota
	SessionSet
	SessionClear
)

func (a SessionAction) String() string {
	switch a {
	case SessionKeep:
		return "keep"
	case SessionSet:
		return "set"
	case SessionClear:
		return "clear"
	default:
		return "unknown"
	}
}

// SessionDirective is the session side effect of a usecase. Usecases never
// touch cookies themselves.
type SessionDirective struct {
	Action SessionAction
	Token  string
}

func KeepSession() SessionDirective { return SessionDirective{Action: SessionKeep} }

func SetSession(token string) SessionDirective {
	return SessionDirective{Action: SessionSet, Token: token}
}

func ClearSession() SessionDirective { return SessionDirective{Action: SessionClear} }

// Reply is a successful usecase result ready to be written to the client.
// A nil Body means no content.
type Reply struct {
	Status  int
	Body    []byte
	Session SessionDirective
}
