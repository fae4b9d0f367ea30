package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/totegamma/salesdesk"
)

const defaultPageLimit = 100

// Page selects a window of a listing. The zero value means skip=0, limit=100.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) values() url.Values {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	v := url.Values{}
	v.Set("skip", strconv.Itoa(max(p.Skip, 0)))
	v.Set("limit", strconv.Itoa(limit))
	return v
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, fallback string) error {
	return c.do(ctx, request{
		method:   method,
		path:     path,
		body:     body,
		out:      out,
		fallback: fallback,
	})
}

// ---

type ClientesAPI struct{ c *Client }

func (c *Client) Clientes() *ClientesAPI { return &ClientesAPI{c: c} }

func (a *ClientesAPI) List(ctx context.Context, page Page) ([]salesdesk.ClienteLead, error) {
	var result []salesdesk.ClienteLead
	err := a.c.call(ctx, http.MethodGet, withQuery("/clientes", page.values()), nil, &result, "Erro ao listar clientes")
	return result, err
}

func (a *ClientesAPI) Get(ctx context.Context, id string) (*salesdesk.ClienteLead, error) {
	var result salesdesk.ClienteLead
	err := a.c.call(ctx, http.MethodGet, "/clientes/"+url.PathEscape(id), nil, &result, "Erro ao obter cliente")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *ClientesAPI) Create(ctx context.Context, data salesdesk.ClienteLeadCreate) (*salesdesk.ClienteLead, error) {
	var result salesdesk.ClienteLead
	err := a.c.call(ctx, http.MethodPost, "/clientes", data, &result, "Erro ao criar cliente")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *ClientesAPI) Update(ctx context.Context, id string, data salesdesk.ClienteLeadUpdate) (*salesdesk.ClienteLead, error) {
	var result salesdesk.ClienteLead
	err := a.c.call(ctx, http.MethodPut, "/clientes/"+url.PathEscape(id), data, &result, "Erro ao atualizar cliente")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *ClientesAPI) Delete(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodDelete, "/clientes/"+url.PathEscape(id), nil, nil, "Erro ao deletar cliente")
}

func (a *ClientesAPI) SearchByName(ctx context.Context, name string) ([]salesdesk.ClienteLead, error) {
	var result []salesdesk.ClienteLead
	err := a.c.call(ctx, http.MethodGet, "/clientes/buscar/nome/"+url.PathEscape(name), nil, &result, "Erro ao buscar clientes")
	return result, err
}

func (a *ClientesAPI) SearchByCompany(ctx context.Context, company string) ([]salesdesk.ClienteLead, error) {
	var result []salesdesk.ClienteLead
	err := a.c.call(ctx, http.MethodGet, "/clientes/buscar/empresa/"+url.PathEscape(company), nil, &result, "Erro ao buscar clientes")
	return result, err
}

// ---

type ChamadasAPI struct{ c *Client }

func (c *Client) Chamadas() *ChamadasAPI { return &ChamadasAPI{c: c} }

type ChamadaFilter struct {
	Resultado salesdesk.ResultadoChamada
	ClienteID string
}

func (a *ChamadasAPI) List(ctx context.Context, page Page, filter ChamadaFilter) ([]salesdesk.Chamada, error) {
	v := page.values()
	if filter.Resultado != "" {
		v.Set("resultado", string(filter.Resultado))
	}
	if filter.ClienteID != "" {
		v.Set("id_cliente", filter.ClienteID)
	}

	var result []salesdesk.Chamada
	err := a.c.call(ctx, http.MethodGet, withQuery("/chamadas", v), nil, &result, "Erro ao listar chamadas")
	return result, err
}

func (a *ChamadasAPI) Get(ctx context.Context, id string) (*salesdesk.Chamada, error) {
	var result salesdesk.Chamada
	err := a.c.call(ctx, http.MethodGet, "/chamadas/"+url.PathEscape(id), nil, &result, "Erro ao obter chamada")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *ChamadasAPI) Create(ctx context.Context, data salesdesk.ChamadaCreate) (*salesdesk.Chamada, error) {
	var result salesdesk.Chamada
	err := a.c.call(ctx, http.MethodPost, "/chamadas", data, &result, "Erro ao criar chamada")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *ChamadasAPI) Update(ctx context.Context, id string, data salesdesk.ChamadaUpdate) (*salesdesk.Chamada, error) {
	var result salesdesk.Chamada
	err := a.c.call(ctx, http.MethodPut, "/chamadas/"+url.PathEscape(id), data, &result, "Erro ao atualizar chamada")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *ChamadasAPI) Delete(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodDelete, "/chamadas/"+url.PathEscape(id), nil, nil, "Erro ao deletar chamada")
}

// ---

type VendasAPI struct{ c *Client }

func (c *Client) Vendas() *VendasAPI { return &VendasAPI{c: c} }

func (a *VendasAPI) List(ctx context.Context, page Page, status salesdesk.StatusVenda) ([]salesdesk.Venda, error) {
	v := page.values()
	if status != "" {
		v.Set("status_filter", string(status))
	}

	var result []salesdesk.Venda
	err := a.c.call(ctx, http.MethodGet, withQuery("/vendas", v), nil, &result, "Erro ao listar vendas")
	return result, err
}

func (a *VendasAPI) Get(ctx context.Context, id string) (*salesdesk.Venda, error) {
	var result salesdesk.Venda
	err := a.c.call(ctx, http.MethodGet, "/vendas/"+url.PathEscape(id), nil, &result, "Erro ao obter venda")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *VendasAPI) Create(ctx context.Context, data salesdesk.VendaCreate) (*salesdesk.Venda, error) {
	var result salesdesk.Venda
	err := a.c.call(ctx, http.MethodPost, "/vendas", data, &result, "Erro ao criar venda")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *VendasAPI) Update(ctx context.Context, id string, data salesdesk.VendaUpdate) (*salesdesk.Venda, error) {
	var result salesdesk.Venda
	err := a.c.call(ctx, http.MethodPut, "/vendas/"+url.PathEscape(id), data, &result, "Erro ao atualizar venda")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *VendasAPI) Delete(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodDelete, "/vendas/"+url.PathEscape(id), nil, nil, "Erro ao deletar venda")
}

// ---

type HistoricoChatAPI struct{ c *Client }

func (c *Client) HistoricoChat() *HistoricoChatAPI { return &HistoricoChatAPI{c: c} }

func (a *HistoricoChatAPI) List(ctx context.Context, page Page) ([]salesdesk.HistoricoChat, error) {
	var result []salesdesk.HistoricoChat
	err := a.c.call(ctx, http.MethodGet, withQuery("/historico-chat", page.values()), nil, &result, "Erro ao listar histórico")
	return result, err
}

func (a *HistoricoChatAPI) Get(ctx context.Context, id string) (*salesdesk.HistoricoChat, error) {
	var result salesdesk.HistoricoChat
	err := a.c.call(ctx, http.MethodGet, "/historico-chat/"+url.PathEscape(id), nil, &result, "Erro ao obter mensagem")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *HistoricoChatAPI) Create(ctx context.Context, data salesdesk.HistoricoChatCreate) (*salesdesk.HistoricoChat, error) {
	var result salesdesk.HistoricoChat
	err := a.c.call(ctx, http.MethodPost, "/historico-chat", data, &result, "Erro ao criar mensagem")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *HistoricoChatAPI) Delete(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodDelete, "/historico-chat/"+url.PathEscape(id), nil, nil, "Erro ao deletar mensagem")
}

// Clear removes the whole chat history of the current user.
func (a *HistoricoChatAPI) Clear(ctx context.Context) error {
	return a.c.call(ctx, http.MethodDelete, "/historico-chat", nil, nil, "Erro ao limpar histórico")
}

// ---

type SugestoesAPI struct{ c *Client }

func (c *Client) Sugestoes() *SugestoesAPI { return &SugestoesAPI{c: c} }

type SugestaoFilter struct {
	Aceita    *bool
	ChamadaID string
}

func (a *SugestoesAPI) List(ctx context.Context, page Page, filter SugestaoFilter) ([]salesdesk.SugestaoIA, error) {
	v := page.values()
	if filter.Aceita != nil {
		v.Set("aceita", strconv.FormatBool(*filter.Aceita))
	}
	if filter.ChamadaID != "" {
		v.Set("id_chamada", filter.ChamadaID)
	}

	var result []salesdesk.SugestaoIA
	err := a.c.call(ctx, http.MethodGet, withQuery("/sugestoes", v), nil, &result, "Erro ao listar sugestões")
	return result, err
}

func (a *SugestoesAPI) Get(ctx context.Context, id string) (*salesdesk.SugestaoIA, error) {
	var result salesdesk.SugestaoIA
	err := a.c.call(ctx, http.MethodGet, "/sugestoes/"+url.PathEscape(id), nil, &result, "Erro ao obter sugestão")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *SugestoesAPI) Create(ctx context.Context, data salesdesk.SugestaoIACreate) (*salesdesk.SugestaoIA, error) {
	var result salesdesk.SugestaoIA
	err := a.c.call(ctx, http.MethodPost, "/sugestoes", data, &result, "Erro ao criar sugestão")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *SugestoesAPI) Update(ctx context.Context, id string, data salesdesk.SugestaoIAUpdate) (*salesdesk.SugestaoIA, error) {
	var result salesdesk.SugestaoIA
	err := a.c.call(ctx, http.MethodPut, "/sugestoes/"+url.PathEscape(id), data, &result, "Erro ao atualizar sugestão")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *SugestoesAPI) Accept(ctx context.Context, id string) (*salesdesk.SugestaoIA, error) {
	var result salesdesk.SugestaoIA
	err := a.c.call(ctx, http.MethodPatch, "/sugestoes/"+url.PathEscape(id)+"/aceitar", nil, &result, "Erro ao aceitar sugestão")
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *SugestoesAPI) Delete(ctx context.Context, id string) error {
	return a.c.call(ctx, http.MethodDelete, "/sugestoes/"+url.PathEscape(id), nil, nil, "Erro ao deletar sugestão")
}
