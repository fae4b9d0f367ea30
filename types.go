package salesdesk

import (
	"time"
)

// User is the profile returned by the backend identity endpoint.
type User struct {
	ID         int       `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	CustomText *string   `json:"custom_text,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is what the backend answers to login and register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        User   `json:"user"`
}

// SessionResponse is what the proxy answers to login and register.
// The token never leaves the server; it travels in the cookie instead.
type SessionResponse struct {
	User    User `json:"user"`
	Success bool `json:"success"`
}

type Dashboard map[string]any

type DashboardStats map[string]any

// ---

type ClienteLead struct {
	ID         string  `json:"id_cliente"`
	Nome       string  `json:"nome"`
	Telefone   *string `json:"telefone,omitempty"`
	Email      *string `json:"e_mail,omitempty"`
	Empresa    *string `json:"empresa,omitempty"`
	Observacao *string `json:"observacao,omitempty"`
	UsuarioID  string  `json:"id_usuario"`
}

type ClienteLeadCreate struct {
	Nome       string  `json:"nome"`
	Telefone   *string `json:"telefone,omitempty"`
	Email      *string `json:"e_mail,omitempty"`
	Empresa    *string `json:"empresa,omitempty"`
	Observacao *string `json:"observacao,omitempty"`
}

type ClienteLeadUpdate struct {
	Nome       *string `json:"nome,omitempty"`
	Telefone   *string `json:"telefone,omitempty"`
	Email      *string `json:"e_mail,omitempty"`
	Empresa    *string `json:"empresa,omitempty"`
	Observacao *string `json:"observacao,omitempty"`
}

// ResultadoChamada is the outcome of a call.
type ResultadoChamada string

const (
	ResultadoSucesso     ResultadoChamada = "sucesso"
	ResultadoFalha       ResultadoChamada = "falha"
	ResultadoEmAndamento ResultadoChamada = "em_andamento"
)

type Chamada struct {
	ID          string            `json:"id_chamada"`
	DataHora    time.Time         `json:"data_hora"`
	Duracao     *int              `json:"duracao,omitempty"`
	Resultado   *ResultadoChamada `json:"resultado,omitempty"`
	Transcricao *string           `json:"transcricao,omitempty"`
	UsuarioID   string            `json:"id_usuario"`
	ClienteID   string            `json:"id_cliente"`
	VendaID     *string           `json:"id_venda,omitempty"`
}

type ChamadaCreate struct {
	DataHora    *time.Time        `json:"data_hora,omitempty"`
	Duracao     *int              `json:"duracao,omitempty"`
	Resultado   *ResultadoChamada `json:"resultado,omitempty"`
	Transcricao *string           `json:"transcricao,omitempty"`
	UsuarioID   string            `json:"id_usuario"`
	ClienteID   string            `json:"id_cliente"`
	VendaID     *string           `json:"id_venda,omitempty"`
}

type ChamadaUpdate struct {
	Duracao     *int              `json:"duracao,omitempty"`
	Resultado   *ResultadoChamada `json:"resultado,omitempty"`
	Transcricao *string           `json:"transcricao,omitempty"`
	VendaID     *string           `json:"id_venda,omitempty"`
}

// StatusVenda is the pipeline stage of a sale.
type StatusVenda string

const (
	StatusEmNegociacao StatusVenda = "em_negociacao"
	StatusFechada      StatusVenda = "fechada"
	StatusPerdida      StatusVenda = "perdida"
	StatusCancelada    StatusVenda = "cancelada"
)

type Venda struct {
	ID              string      `json:"id_venda"`
	Titulo          string      `json:"titulo"`
	Valor           float64     `json:"valor"`
	Status          StatusVenda `json:"status"`
	DataFechamento  *string     `json:"data_fechamento,omitempty"`
	Observacoes     *string     `json:"observacoes,omitempty"`
	ClienteID       string      `json:"id_cliente"`
	UsuarioID       *string     `json:"id_usuario,omitempty"`
	DataCriacao     time.Time   `json:"data_criacao"`
	DataAtualizacao time.Time   `json:"data_atualizacao"`
}

type VendaCreate struct {
	Titulo         string       `json:"titulo"`
	Valor          float64      `json:"valor"`
	Status         *StatusVenda `json:"status,omitempty"`
	DataFechamento *string      `json:"data_fechamento,omitempty"`
	Observacoes    *string      `json:"observacoes,omitempty"`
	ClienteID      string       `json:"id_cliente"`
	UsuarioID      *string      `json:"id_usuario,omitempty"`
}

type VendaUpdate struct {
	Titulo         *string      `json:"titulo,omitempty"`
	Valor          *float64     `json:"valor,omitempty"`
	Status         *StatusVenda `json:"status,omitempty"`
	DataFechamento *string      `json:"data_fechamento,omitempty"`
	Observacoes    *string      `json:"observacoes,omitempty"`
}

type HistoricoChat struct {
	ID        string    `json:"id_mensagem"`
	Interacao string    `json:"interacao"`
	DataEnvio time.Time `json:"data_envio"`
	UsuarioID string    `json:"id_usuario"`
}

type HistoricoChatCreate struct {
	Interacao string `json:"interacao"`
	UsuarioID string `json:"id_usuario"`
}

type SugestaoIA struct {
	ID        string `json:"id_sugestao"`
	Conteudo  string `json:"conteudo"`
	Momento   *int   `json:"momento,omitempty"`
	Aceita    bool   `json:"aceita"`
	ChamadaID string `json:"id_chamada"`
}

type SugestaoIACreate struct {
	Conteudo  string `json:"conteudo"`
	Momento   *int   `json:"momento,omitempty"`
	Aceita    *bool  `json:"aceita,omitempty"`
	ChamadaID string `json:"id_chamada"`
}

type SugestaoIAUpdate struct {
	Aceita *bool `json:"aceita,omitempty"`
}
