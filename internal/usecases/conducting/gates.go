package conducting

import (
	"github.com/xixoi/ads-autopilot-api/internal/domain"
	"github.com/xixoi/ads-autopilot-api/pkg/utils"
)

// Confiança mínima absoluta para qualquer execução automática,
// independente do modo de autopilot do usuário
const minAutoExecuteConfidence = 85

// Rótulos de gate usados em logs e métricas
const (
	gateAdvisory       = "advisory"
	gateAutopilotOff   = "autopilot_off"
	gateModeThreshold  = "mode_threshold"
	gateActionDisabled = "action_disabled"
	gateNotExecutable  = "not_executable"
	gateCostMargin     = "cost_margin"
	gateNegativeProfit = "negative_profit"
	gateMissingValue   = "missing_value"
	gateSanityBound    = "sanity_bound"
)

type gateInput struct {
	decision domain.Decision
	campaign *domain.Campaign
	profile  *domain.CostProfile
	mode     domain.AutopilotMode
	profit   *domain.ProfitMetrics

	minDailyBudget float64
	minRecommended float64
	maxRecommended float64
}

// gateVerdict é o resultado da avaliação dos gates para uma decisão.
// appliedValue só é preenchido para mutações de orçamento permitidas,
// já com os limites de magnitude aplicados.
type gateVerdict struct {
	allowed      bool
	gate         string
	blockedEvent *string
	appliedValue *float64
}

func blockedBy(gate string) gateVerdict {
	return gateVerdict{gate: gate}
}

// evaluateGates aplica a cadeia completa de gates de segurança. Todos
// precisam passar simultaneamente; a primeira recusa encerra a avaliação.
// Recusas não são erros: a decisão permanece registrada no log de auditoria
// como consultiva.
func evaluateGates(in gateInput) gateVerdict {
	decision := in.decision

	// A própria decisão precisa se declarar executável com confiança mínima
	if !decision.AutoExecute || decision.Confidence < minAutoExecuteConfidence {
		return blockedBy(gateAdvisory)
	}

	// Modo de autopilot do usuário
	threshold, enabled := in.mode.ConfidenceThreshold()
	if !enabled {
		return blockedBy(gateAutopilotOff)
	}
	if decision.Confidence < threshold {
		return blockedBy(gateModeThreshold)
	}

	// Chaves de automação por classe de ação na campanha. Pausar/retomar e
	// ajustar orçamento têm chaves independentes.
	switch decision.Kind {
	case domain.DecisionPauseCampaign, domain.DecisionResumeCampaign:
		if !in.campaign.AutoPauseEnabled {
			return blockedBy(gateActionDisabled)
		}
	case domain.DecisionBudgetIncrease, domain.DecisionBudgetDecrease:
		if !in.campaign.AutoBudgetEnabled {
			return blockedBy(gateActionDisabled)
		}
	default:
		// Demais tipos são sempre consultivos
		return blockedBy(gateNotExecutable)
	}

	// Gate de margem de custo do usuário. Abaixo do limiar crítico nenhuma
	// execução automática acontece e o bloqueio ganha marcador próprio;
	// abaixo do limiar de bloqueio só ações que reduzem gasto passam.
	switch {
	case in.profile.MarginPercentage < domain.CostMarginBlocked:
		if decision.Kind != domain.DecisionPauseCampaign && decision.Kind != domain.DecisionBudgetDecrease {
			return blockedBy(gateCostMargin)
		}
	case in.profile.MarginPercentage < domain.CostMarginCritical:
		event := domain.BlockedEventCostMargin
		verdict := blockedBy(gateCostMargin)
		verdict.blockedEvent = &event
		return verdict
	}

	// Gate de segurança de lucro: aumento de orçamento nunca executa com
	// lucro líquido negativo, qualquer que seja a confiança ou a margem
	if decision.Kind == domain.DecisionBudgetIncrease && in.profit != nil && in.profit.NetProfit < 0 {
		return blockedBy(gateNegativeProfit)
	}

	verdict := gateVerdict{allowed: true, gate: ""}

	// Limites de magnitude para mutações de orçamento
	if decision.Kind == domain.DecisionBudgetIncrease || decision.Kind == domain.DecisionBudgetDecrease {
		if decision.RecommendedValue == nil {
			return blockedBy(gateMissingValue)
		}

		recommended := *decision.RecommendedValue
		if recommended < in.minRecommended || recommended > in.maxRecommended {
			return blockedBy(gateSanityBound)
		}

		applied := utils.RoundWithTwoDecimalPlace(clampBudgetChange(decision.Kind, in.campaign.DailyBudget, recommended, in.minDailyBudget))
		verdict.appliedValue = &applied
	}

	return verdict
}

// clampBudgetChange aplica os limites relativos de 1.2×/0.8× sobre o
// orçamento diário atual e o piso absoluto para reduções
func clampBudgetChange(kind domain.DecisionKind, current, recommended, floor float64) float64 {
	switch kind {
	case domain.DecisionBudgetIncrease:
		cap := current * 1.2
		if recommended > cap {
			return cap
		}
		return recommended
	case domain.DecisionBudgetDecrease:
		lower := current * 0.8
		if lower < floor {
			lower = floor
		}
		if recommended < lower {
			return lower
		}
		return recommended
	}
	return recommended
}
