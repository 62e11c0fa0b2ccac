package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro padronizados da API
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidCredentials    = "AUTH_001" // Credenciais inválidas
	ErrUserDisabled          = "AUTH_002" // Usuário desativado
	ErrUserNotFound          = "AUTH_003" // Usuário não encontrado
	ErrInvalidToken          = "AUTH_004" // Token inválido
	ErrExpiredToken          = "AUTH_005" // Token expirado
	ErrInsufficientPrivilege = "AUTH_006" // Privilégios insuficientes
	ErrUserAlreadyExists     = "AUTH_007" // Usuário já existe
	ErrUserLocked            = "AUTH_008" // Usuário bloqueado temporariamente

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros de credenciais de plataforma (3000-3999)
	ErrOAuthRequired           = "CRED_001" // Tier self-custody sem conta conectada
	ErrSystemCredentialMissing = "CRED_002" // Credencial do pool do sistema ausente
	ErrCredentialIntegrity     = "CRED_003" // Falha de integridade ao decifrar credencial
	ErrCredentialRevoked       = "CRED_004" // Credencial revogada

	// Erros do conductor e do gateway de LLM (4000-4999)
	ErrGatewayRateLimited      = "GW_001" // Gateway limitou a taxa de requisições
	ErrGatewayCreditsExhausted = "GW_002" // Créditos do gateway esgotados
	ErrGatewayFailure          = "GW_003" // Falha genérica do gateway
	ErrConductorBusy           = "CND_001" // Execução do conductor já em andamento

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrExternalService   = "SRV_003" // Erro em serviço externo
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrUserDisabled:          http.StatusForbidden,
	ErrUserNotFound:          http.StatusNotFound,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrUserAlreadyExists:     http.StatusBadRequest,

	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,

	// OAuthRequired é acionável pelo usuário final ("conecte sua conta"),
	// nunca um 5xx. A ausência de credencial do sistema é incidente de
	// operação e fica como 500.
	ErrOAuthRequired:           http.StatusPreconditionFailed,
	ErrSystemCredentialMissing: http.StatusInternalServerError,
	ErrCredentialIntegrity:     http.StatusInternalServerError,
	ErrCredentialRevoked:       http.StatusPreconditionFailed,

	ErrGatewayRateLimited:      http.StatusTooManyRequests,
	ErrGatewayCreditsExhausted: http.StatusPaymentRequired,
	ErrGatewayFailure:          http.StatusBadGateway,
	ErrConductorBusy:           http.StatusConflict,

	ErrInternalServer:    http.StatusInternalServerError,
	ErrDatabaseOperation: http.StatusInternalServerError,
	ErrExternalService:   http.StatusBadGateway,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
