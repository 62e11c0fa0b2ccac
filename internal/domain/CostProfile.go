package domain

// CostStatus é o status derivado do orçamento de IA/infra do usuário
type CostStatus string

const (
	CostStatusHealthy  CostStatus = "healthy"
	CostStatusWarning  CostStatus = "warning"
	CostStatusCritical CostStatus = "critical"
	CostStatusBlocked  CostStatus = "blocked"
	CostStatusExceeded CostStatus = "exceeded"
)

// Limiares de margem que definem o status. Avaliados em ordem, o primeiro
// que casar vence.
const (
	CostMarginBlocked  = 0.05
	CostMarginCritical = 0.10
	CostMarginWarning  = 0.20
)

// CostProfile é a visão pontual do gasto de IA/infra do usuário no mês
// corrente contra o teto do tier. Recalculado a cada ciclo do conductor,
// nunca memoizado entre ciclos.
type CostProfile struct {
	UserID           int        `json:"user_id"`
	Tier             Tier       `json:"tier"`
	TierLimit        float64    `json:"tier_limit"`
	LLMCost          float64    `json:"llm_cost"`
	InfraCost        float64    `json:"infra_cost"`
	TotalCost        float64    `json:"total_cost"`
	MarginRemaining  float64    `json:"margin_remaining"`
	MarginPercentage float64    `json:"margin_percentage"`
	Status           CostStatus `json:"status"`
}

// CostStatusForMargin aplica a função degrau que mapeia percentual de margem
// em status, na ordem exata dos limiares.
func CostStatusForMargin(marginPercentage float64) CostStatus {
	switch {
	case marginPercentage < 0:
		return CostStatusExceeded
	case marginPercentage < CostMarginBlocked:
		return CostStatusBlocked
	case marginPercentage < CostMarginCritical:
		return CostStatusCritical
	case marginPercentage < CostMarginWarning:
		return CostStatusWarning
	default:
		return CostStatusHealthy
	}
}
