package usecase

import (
	"context"
)

// BackendRequest is a call forwarded to the backend API. An empty Token
// means the call is sent without an Authorization header.
type BackendRequest struct {
	Method   string
	Path     string
	RawQuery string
	Token    string
	Body     []byte
}

// BackendResponse is the backend's answer, whatever its status.
type BackendResponse struct {
	Status int
	Body   []byte
}

func (r *BackendResponse) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

// BackendGateway performs calls against the backend API. A returned error
// means the backend could not be reached or answered unreadably.
type BackendGateway interface {
	Do(ctx context.Context, req BackendRequest) (*BackendResponse, error)
}

// IdentityCache remembers recent /auth/me answers keyed by session token.
type IdentityCache interface {
	Get(ctx context.Context, token string) ([]byte, bool)
	Set(ctx context.Context, token string, profile []byte)
	Delete(ctx context.Context, token string)
}
