package domain

import (
	"errors"
	"fmt"

	appdomain "github.com/xixoi/ads-autopilot-api/internal/domain"
)

// SchemaOptimizationPlan é o nome do schema de saída estruturada registrado
// no gateway para o plano de otimização de campanhas
const SchemaOptimizationPlan = "campaign_optimization_plan"

// CompletionRequest é a requisição de completion estruturada enviada ao gateway
type CompletionRequest struct {
	Model        string `json:"model"`
	SystemPrompt string `json:"system"`
	UserPrompt   string `json:"input"`
	SchemaName   string `json:"schema"`
}

// OptimizationPlan é o objeto estruturado devolvido pelo gateway para o
// schema de otimização
type OptimizationPlan struct {
	Decisions     []appdomain.Decision `json:"decisions"`
	Summary       string               `json:"summary"`
	ProfitSummary string               `json:"profit_summary"`
}

// GatewayErrorKind classifica a falha do gateway
type GatewayErrorKind string

const (
	GatewayErrorRateLimited      GatewayErrorKind = "rate_limited"
	GatewayErrorCreditsExhausted GatewayErrorKind = "credits_exhausted"
	GatewayErrorOther            GatewayErrorKind = "other"
)

// GatewayError é a falha tipada do gateway de LLM. HTTP 429 vira
// rate_limited e HTTP 402 vira credits_exhausted; o resto é other.
type GatewayError struct {
	Kind       GatewayErrorKind
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway de LLM falhou (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway de LLM falhou (%s): %s", e.Kind, e.Message)
}

// NewGatewayError cria a falha tipada a partir do status HTTP
func NewGatewayError(statusCode int, message string) *GatewayError {
	kind := GatewayErrorOther
	switch statusCode {
	case 429:
		kind = GatewayErrorRateLimited
	case 402:
		kind = GatewayErrorCreditsExhausted
	}

	return &GatewayError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
	}
}

// IsRateLimited indica se o erro é de limite de taxa do gateway
func IsRateLimited(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == GatewayErrorRateLimited
}

// IsCreditsExhausted indica se o erro é de créditos esgotados
func IsCreditsExhausted(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == GatewayErrorCreditsExhausted
}
