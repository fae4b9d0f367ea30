package usecase

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/totegamma/salesdesk/internal/domain"
)

// Resource names a backend collection and the nouns used in its messages.
type Resource struct {
	Path string
	One  string
	Many string
}

var (
	ResourceClientes      = Resource{Path: "/clientes", One: "cliente", Many: "clientes"}
	ResourceChamadas      = Resource{Path: "/chamadas", One: "chamada", Many: "chamadas"}
	ResourceVendas        = Resource{Path: "/vendas", One: "venda", Many: "vendas"}
	ResourceHistoricoChat = Resource{Path: "/historico-chat", One: "mensagem", Many: "histórico"}
	ResourceSugestoes     = Resource{Path: "/sugestoes", One: "sugestão", Many: "sugestões"}
	ResourceDashboard     = Resource{Path: "/user/dashboard", One: "dashboard", Many: "dashboard"}
	ResourceStats         = Resource{Path: "/user/dashboard/stats", One: "estatísticas", Many: "estatísticas"}
)

// FallbackMessage is used when the backend gives no usable detail.
// item is true for calls addressing a single element of the collection.
func (r Resource) FallbackMessage(method string, item bool) string {
	switch method {
	case http.MethodPost:
		return "Erro ao criar " + r.One
	case http.MethodPut, http.MethodPatch:
		return "Erro ao atualizar " + r.One
	case http.MethodDelete:
		if !item {
			return "Erro ao limpar " + r.Many
		}
		return "Erro ao deletar " + r.One
	default:
		if !item {
			return "Erro ao buscar " + r.Many
		}
		return "Erro ao buscar " + r.One
	}
}

// ForwardInput describes one authenticated proxy call.
type ForwardInput struct {
	Method   string
	Path     string
	RawQuery string
	Token    string
	Body     []byte
	Fallback string
}

type ProxyUsecase struct {
	gateway BackendGateway
	cache   IdentityCache
}

func NewProxyUsecase(gateway BackendGateway, cache IdentityCache) *ProxyUsecase {
	return &ProxyUsecase{
		gateway: gateway,
		cache:   cache,
	}
}

// Forward relays an authenticated call. A backend 401 yields an
// UpstreamError carrying a ClearSession directive.
func (uc *ProxyUsecase) Forward(ctx context.Context, input ForwardInput) (domain.Reply, error) {
	ctx, span := tracer.Start(ctx, "Proxy.Usecase.Forward")
	defer span.End()

	if input.Token == "" {
		return domain.Reply{}, domain.ErrUnauthenticated
	}

	resp, err := uc.gateway.Do(ctx, BackendRequest{
		Method:   input.Method,
		Path:     input.Path,
		RawQuery: input.RawQuery,
		Token:    input.Token,
		Body:     input.Body,
	})
	if err != nil {
		return domain.Reply{}, errors.Wrapf(err, "forward %s %s failed", input.Method, input.Path)
	}

	if !resp.OK() {
		session := domain.KeepSession()
		if resp.Status == http.StatusUnauthorized {
			uc.cache.Delete(ctx, input.Token)
			session = domain.ClearSession()
		}
		return domain.Reply{}, &domain.UpstreamError{
			Status:  resp.Status,
			Message: detailMessage(resp.Body, input.Fallback),
			Session: session,
		}
	}

	switch input.Method {
	case http.MethodDelete:
		return domain.Reply{Status: http.StatusNoContent}, nil
	case http.MethodPost:
		return domain.Reply{Status: http.StatusCreated, Body: resp.Body}, nil
	}

	status := resp.Status
	if status == http.StatusNoContent || len(resp.Body) == 0 {
		return domain.Reply{Status: http.StatusNoContent}, nil
	}
	return domain.Reply{Status: status, Body: resp.Body}, nil
}
