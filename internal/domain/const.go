package domain

const (
	SessionTokenCtxKey = "sd-sessionToken"
)

const (
	MessageUnauthenticated = "Não autenticado"
	MessageSessionExpired  = "Sessão expirada"
	MessageInternalError   = "Erro interno do servidor"
	MessageLoggedOut       = "Logout realizado com sucesso"
	MessageTooManyRequests = "Muitas requisições, tente novamente mais tarde"
)
