package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/totegamma/salesdesk/internal/domain"
)

var tracer = otel.Tracer("usecase")

type AuthUsecase struct {
	gateway BackendGateway
	cache   IdentityCache
}

func NewAuthUsecase(gateway BackendGateway, cache IdentityCache) *AuthUsecase {
	return &AuthUsecase{
		gateway: gateway,
		cache:   cache,
	}
}

type authResponse struct {
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

type sessionPayload struct {
	User    json.RawMessage `json:"user"`
	Success bool            `json:"success"`
}

type logoutPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login exchanges credentials for a backend token. The token never reaches
// the response body; it is handed back as a SetSession directive.
func (uc *AuthUsecase) Login(ctx context.Context, body []byte) (domain.Reply, error) {
	ctx, span := tracer.Start(ctx, "Auth.Usecase.Login")
	defer span.End()

	return uc.establish(ctx, "/auth/login", body, http.StatusOK, "Erro ao fazer login")
}

func (uc *AuthUsecase) Register(ctx context.Context, body []byte) (domain.Reply, error) {
	ctx, span := tracer.Start(ctx, "Auth.Usecase.Register")
	defer span.End()

	return uc.establish(ctx, "/auth/register", body, http.StatusCreated, "Erro ao fazer registro")
}

func (uc *AuthUsecase) establish(ctx context.Context, path string, body []byte, status int, fallback string) (domain.Reply, error) {
	resp, err := uc.gateway.Do(ctx, BackendRequest{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return domain.Reply{}, errors.Wrap(err, "auth request failed")
	}

	if !resp.OK() {
		return domain.Reply{}, &domain.UpstreamError{
			Status:  resp.Status,
			Message: detailMessage(resp.Body, fallback),
			Session: domain.KeepSession(),
		}
	}

	var auth authResponse
	err = json.Unmarshal(resp.Body, &auth)
	if err != nil {
		return domain.Reply{}, errors.Wrap(err, "failed to decode auth response")
	}
	if auth.AccessToken == "" {
		return domain.Reply{}, errors.New("backend returned no access token")
	}

	payload, err := json.Marshal(sessionPayload{User: auth.User, Success: true})
	if err != nil {
		return domain.Reply{}, errors.Wrap(err, "failed to encode session payload")
	}

	return domain.Reply{
		Status:  status,
		Body:    payload,
		Session: domain.SetSession(auth.AccessToken),
	}, nil
}

// Logout always succeeds, with or without a session.
func (uc *AuthUsecase) Logout(ctx context.Context, token string) (domain.Reply, error) {
	if token != "" {
		uc.cache.Delete(ctx, token)
	}

	payload, err := json.Marshal(logoutPayload{Success: true, Message: domain.MessageLoggedOut})
	if err != nil {
		return domain.Reply{}, errors.Wrap(err, "failed to encode logout payload")
	}

	return domain.Reply{
		Status:  http.StatusOK,
		Body:    payload,
		Session: domain.ClearSession(),
	}, nil
}

// Me returns the profile for the session token. Any rejection by the
// backend means the session is gone.
func (uc *AuthUsecase) Me(ctx context.Context, token string) (domain.Reply, error) {
	ctx, span := tracer.Start(ctx, "Auth.Usecase.Me")
	defer span.End()

	if token == "" {
		return domain.Reply{}, domain.ErrUnauthenticated
	}

	if profile, ok := uc.cache.Get(ctx, token); ok {
		return domain.Reply{Status: http.StatusOK, Body: profile}, nil
	}

	resp, err := uc.gateway.Do(ctx, BackendRequest{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Token:  token,
	})
	if err != nil {
		return domain.Reply{}, errors.Wrap(err, "identity request failed")
	}

	if !resp.OK() {
		uc.cache.Delete(ctx, token)
		return domain.Reply{}, domain.ErrSessionExpired
	}

	if !json.Valid(resp.Body) {
		return domain.Reply{}, errors.New("backend returned an invalid profile")
	}

	uc.cache.Set(ctx, token, resp.Body)
	return domain.Reply{Status: http.StatusOK, Body: resp.Body}, nil
}
