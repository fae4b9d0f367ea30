// Package credential owns persistence of the session credential on the
// client side. Exactly two transports exist: one that leaves the credential
// to the browser's cookie jar and one that keeps a bearer token in
// extension-local storage.
package credential

import (
	"context"

	"github.com/pkg/errors"

	"github.com/totegamma/salesdesk/environment"
)

// TokenKey is the storage key under which the bearer token is kept.
const TokenKey = "token"

type Kind int

const (
	KindCookie Kind = iota
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindCookie:
		return "cookie"
	case KindToken:
		return "token"
	default:
		return "unknown"
	}
}

type Transport interface {
	Persist(ctx context.Context, token string) error
	// Read returns the stored credential; ok is false when none is stored.
	Read(ctx context.Context) (token string, ok bool, err error)
	Clear(ctx context.Context) error
	Kind() Kind
}

// Store is extension-local persistent key-value storage.
// Implementations serialize their own writes.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// New selects the transport for mode. It is the only place that branches on
// the runtime environment.
func New(mode environment.Mode, store Store) Transport {
	if mode == environment.ModeExtension {
		if store == nil {
			store = NewMemoryStore()
		}
		return NewTokenTransport(store)
	}
	return CookieTransport{}
}

// CookieTransport never touches the credential. The server sets and deletes
// the HttpOnly cookie and the cookie jar forwards it; application code can
// not observe the value.
type CookieTransport struct{}

func (CookieTransport) Persist(context.Context, string) error { return nil }

func (CookieTransport) Read(context.Context) (string, bool, error) { return "", false, nil }

func (CookieTransport) Clear(context.Context) error { return nil }

func (CookieTransport) Kind() Kind { return KindCookie }

type TokenTransport struct {
	store Store
}

func NewTokenTransport(store Store) *TokenTransport {
	return &TokenTransport{store: store}
}

func (t *TokenTransport) Persist(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("refusing to persist an empty token")
	}
	if err := t.store.Set(ctx, TokenKey, token); err != nil {
		return errors.Wrap(err, "TokenTransport.Persist")
	}
	return nil
}

func (t *TokenTransport) Read(ctx context.Context) (string, bool, error) {
	token, ok, err := t.store.Get(ctx, TokenKey)
	if err != nil {
		return "", false, errors.Wrap(err, "TokenTransport.Read")
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (t *TokenTransport) Clear(ctx context.Context) error {
	if err := t.store.Delete(ctx, TokenKey); err != nil {
		return errors.Wrap(err, "TokenTransport.Clear")
	}
	return nil
}

func (t *TokenTransport) Kind() Kind { return KindToken }

var (
	_ Transport = CookieTransport{}
	_ Transport = (*TokenTransport)(nil)
)
