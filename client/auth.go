package client

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/totegamma/salesdesk"
	"github.com/totegamma/salesdesk/credential"
)

// Login establishes a session. In extension mode the returned bearer token
// is persisted before Login returns; in web mode the proxy has already set
// the cookie and nothing further happens here.
func (c *Client) Login(ctx context.Context, req salesdesk.LoginRequest) (*salesdesk.User, error) {
	return c.establish(ctx, "/auth/login", req, "Erro ao fazer login")
}

func (c *Client) Register(ctx context.Context, req salesdesk.RegisterRequest) (*salesdesk.User, error) {
	return c.establish(ctx, "/auth/register", req, "Erro ao fazer registro")
}

func (c *Client) establish(ctx context.Context, path string, body any, fallback string) (*salesdesk.User, error) {
	if c.transport.Kind() == credential.KindToken {
		var result salesdesk.AuthResponse
		err := c.do(ctx, request{
			method:   http.MethodPost,
			path:     path,
			body:     body,
			out:      &result,
			fallback: fallback,
			public:   true,
		})
		if err != nil {
			return nil, err
		}
		if result.AccessToken == "" {
			return nil, errors.New("backend returned no access token")
		}

		err = c.transport.Persist(ctx, result.AccessToken)
		if err != nil {
			return nil, errors.Wrap(err, "failed to persist credential")
		}
		return &result.User, nil
	}

	var result salesdesk.SessionResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     path,
		body:     body,
		out:      &result,
		fallback: fallback,
		public:   true,
	})
	if err != nil {
		return nil, err
	}
	return &result.User, nil
}

// Logout discards the session. It succeeds when no session exists.
func (c *Client) Logout(ctx context.Context) error {
	if c.transport.Kind() == credential.KindToken {
		return c.transport.Clear(ctx)
	}

	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/logout",
		fallback: "Erro ao fazer logout",
		public:   true,
	})
}

func (c *Client) Me(ctx context.Context) (*salesdesk.User, error) {
	var user salesdesk.User
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/auth/me",
		out:      &user,
		fallback: "Erro ao buscar dados do usuário",
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Dashboard(ctx context.Context) (salesdesk.Dashboard, error) {
	var dashboard salesdesk.Dashboard
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/user/dashboard",
		out:      &dashboard,
		fallback: "Erro ao buscar dashboard",
	})
	return dashboard, err
}

func (c *Client) DashboardStats(ctx context.Context) (salesdesk.DashboardStats, error) {
	var stats salesdesk.DashboardStats
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/user/dashboard/stats",
		out:      &stats,
		fallback: "Erro ao buscar estatísticas",
	})
	return stats, err
}
