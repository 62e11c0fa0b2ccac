package domain

import "time"

// DecisionKind é o tipo de ação de otimização proposta pelo gateway de LLM
type DecisionKind string

const (
	DecisionBudgetIncrease   DecisionKind = "budget_increase"
	DecisionBudgetDecrease   DecisionKind = "budget_decrease"
	DecisionPauseCampaign    DecisionKind = "pause_campaign"
	DecisionResumeCampaign   DecisionKind = "resume_campaign"
	DecisionCreativeRotation DecisionKind = "creative_rotation"
	DecisionPriceTest        DecisionKind = "price_test"
	DecisionProfitAlert      DecisionKind = "profit_alert"
	DecisionNoAction         DecisionKind = "no_action"
)

// Decision é uma ação proposta pelo LLM. Ela é meramente consultiva até
// passar por todos os gates de segurança do conductor; é sempre registrada
// no log de auditoria, executada ou não.
type Decision struct {
	Kind               DecisionKind `json:"kind"`
	CampaignID         string       `json:"campaign_id"`
	Confidence         int          `json:"confidence"`
	AutoExecute        bool         `json:"auto_execute"`
	Reason             string       `json:"reason"`
	RecommendedValue   *float64     `json:"recommended_value"`
	ExpectedMarginGain *float64     `json:"expected_margin_gain"`
	ProfitImpact       *string      `json:"profit_impact"`
}

// DecisionLogEntry é a linha de auditoria persistida para cada Decision
type DecisionLogEntry struct {
	ID               string       `json:"id"`
	RunID            string       `json:"run_id"`
	UserID           int          `json:"user_id"`
	CampaignID       string       `json:"campaign_id"`
	Kind             DecisionKind `json:"kind"`
	Confidence       int          `json:"confidence"`
	AutoExecute      bool         `json:"auto_execute"`
	Reason           string       `json:"reason"`
	RecommendedValue *float64     `json:"recommended_value"`
	AppliedValue     *float64     `json:"applied_value"`
	Executed         bool         `json:"executed"`
	BlockedEvent     *string      `json:"blocked_event"`
	CreatedAt        time.Time    `json:"created_at"`
}

// Marcadores de evento registrados quando a execução automática é barrada
const (
	BlockedEventCostMargin = "cost_margin_block"
)

// ConductorRunResult é a resposta de uma execução do conductor
type ConductorRunResult struct {
	Success         bool     `json:"success"`
	RunID           string   `json:"run_id"`
	DecisionsCount  int      `json:"decisionsCount"`
	ExecutedActions []string `json:"executedActions"`
	Summary         string   `json:"summary"`
	ProfitSummary   string   `json:"profitSummary,omitempty"`
}

// AutopilotMode controla o limiar de confiança exigido para execução
// automática por usuário
type AutopilotMode string

const (
	AutopilotOff          AutopilotMode = "off"
	AutopilotConservative AutopilotMode = "conservative"
	AutopilotStandard     AutopilotMode = "standard"
	AutopilotAggressive   AutopilotMode = "aggressive"
)

// ConfidenceThreshold retorna a confiança mínima exigida pelo modo.
// Modo desligado retorna 0 junto com ok=false.
func (m AutopilotMode) ConfidenceThreshold() (int, bool) {
	switch m {
	case AutopilotAggressive:
		return 70, true
	case AutopilotStandard:
		return 85, true
	case AutopilotConservative:
		return 95, true
	}
	return 0, false
}

// ParseAutopilotMode normaliza o modo vindo do banco; valores desconhecidos
// são tratados como desligado.
func ParseAutopilotMode(s string) AutopilotMode {
	switch AutopilotMode(s) {
	case AutopilotConservative, AutopilotStandard, AutopilotAggressive:
		return AutopilotMode(s)
	}
	return AutopilotOff
}
