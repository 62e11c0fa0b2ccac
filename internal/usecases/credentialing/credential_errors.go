package credentialing

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de credenciais
var (
	// ErrOAuthRequired: usuário de tier self-custody sem conta conectada.
	// O chamador apresenta ao usuário final o fluxo "conecte sua conta";
	// nunca é tratado como 5xx e nunca cai no pool do sistema.
	ErrOAuthRequired = errors.New("conta da plataforma não conectada")

	// ErrSystemCredentialMissing: credencial do pool do sistema ausente.
	// Incidente de operação, invisível para o usuário final.
	ErrSystemCredentialMissing = errors.New("credencial do sistema não provisionada")

	// ErrCredentialRevoked: a credencial existe mas foi revogada
	ErrCredentialRevoked = errors.New("credencial revogada")

	// Erros de validação
	ErrUnknownPlatform = errors.New("plataforma desconhecida")
	ErrMissingSecret   = errors.New("segredo de acesso obrigatório ausente")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// CredentialError é um erro com contexto adicional para credenciais
type CredentialError struct {
	Err      error  // Erro base
	Code     string // Código de erro para API
	Platform string // Plataforma envolvida
	Details  string // Detalhes adicionais
}

// Error implementa a interface error
func (e *CredentialError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Details, e.Platform)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *CredentialError) Unwrap() error {
	return e.Err
}

// NewCredentialError cria um novo CredentialError
func NewCredentialError(baseErr error, code string, platform string, details string) *CredentialError {
	return &CredentialError{
		Err:      baseErr,
		Code:     code,
		Platform: platform,
		Details:  details,
	}
}

// IsOAuthRequired verifica se o erro pede conexão de conta pelo usuário
func IsOAuthRequired(err error) bool {
	return errors.Is(err, ErrOAuthRequired)
}

// IsConfigurationError verifica se o erro é de provisionamento do operador
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrSystemCredentialMissing)
}
