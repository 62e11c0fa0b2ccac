package conducting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

func floatPtr(f float64) *float64 {
	return &f
}

func baseGateInput() gateInput {
	return gateInput{
		decision: domain.Decision{
			Kind:        domain.DecisionBudgetIncrease,
			CampaignID:  "c4mp01",
			Confidence:  90,
			AutoExecute: true,
			Reason:      "ROAS ajustado por margem acima do equilíbrio",
		},
		campaign: &domain.Campaign{
			ID:                "c4mp01",
			UserID:            10,
			DailyBudget:       100,
			AutoPauseEnabled:  true,
			AutoBudgetEnabled: true,
		},
		profile: &domain.CostProfile{
			UserID:           10,
			MarginPercentage: 0.60,
			Status:           domain.CostStatusHealthy,
		},
		mode: domain.AutopilotStandard,
		profit: &domain.ProfitMetrics{
			CampaignID: "c4mp01",
			NetProfit:  250,
		},
		minDailyBudget: 5,
		minRecommended: 1,
		maxRecommended: 10000,
	}
}

func TestEvaluateGates(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(in *gateInput)
		validate func(t *testing.T, verdict gateVerdict)
	}{
		{
			name: "decisão sem auto_execute fica consultiva",
			mutate: func(in *gateInput) {
				in.decision.AutoExecute = false
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateAdvisory, verdict.gate)
			},
		},
		{
			name: "confiança abaixo do mínimo absoluto fica consultiva",
			mutate: func(in *gateInput) {
				in.decision.Confidence = 84
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateAdvisory, verdict.gate)
			},
		},
		{
			name: "autopilot desligado barra qualquer execução",
			mutate: func(in *gateInput) {
				in.mode = domain.AutopilotOff
				in.decision.Confidence = 100
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateAutopilotOff, verdict.gate)
			},
		},
		{
			name: "modo conservador exige 95 de confiança",
			mutate: func(in *gateInput) {
				in.mode = domain.AutopilotConservative
				in.decision.Confidence = 90
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateModeThreshold, verdict.gate)
			},
		},
		{
			name: "modo agressivo aceita confiança 85",
			mutate: func(in *gateInput) {
				in.mode = domain.AutopilotAggressive
				in.decision.Confidence = 85
				in.decision.RecommendedValue = floatPtr(110)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.True(t, verdict.allowed)
				assert.InDelta(t, 110, *verdict.appliedValue, 0.001)
			},
		},
		{
			name: "pausa com chave de automação desligada é barrada",
			mutate: func(in *gateInput) {
				in.decision.Kind = domain.DecisionPauseCampaign
				in.campaign.AutoPauseEnabled = false
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateActionDisabled, verdict.gate)
			},
		},
		{
			name: "ajuste de orçamento com chave de automação desligada é barrado",
			mutate: func(in *gateInput) {
				in.decision.Kind = domain.DecisionBudgetDecrease
				in.decision.RecommendedValue = floatPtr(90)
				in.campaign.AutoBudgetEnabled = false
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateActionDisabled, verdict.gate)
			},
		},
		{
			name: "rotação de criativo nunca executa automaticamente",
			mutate: func(in *gateInput) {
				in.decision.Kind = domain.DecisionCreativeRotation
				in.decision.Confidence = 100
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateNotExecutable, verdict.gate)
			},
		},
		{
			name: "margem abaixo de 5% barra aumento de orçamento sem marcador",
			mutate: func(in *gateInput) {
				in.profile.MarginPercentage = 0.02
				in.decision.RecommendedValue = floatPtr(110)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateCostMargin, verdict.gate)
				assert.Nil(t, verdict.blockedEvent)
			},
		},
		{
			name: "margem abaixo de 5% ainda permite pausar campanha",
			mutate: func(in *gateInput) {
				in.profile.MarginPercentage = 0.02
				in.decision.Kind = domain.DecisionPauseCampaign
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.True(t, verdict.allowed)
				assert.Nil(t, verdict.appliedValue)
			},
		},
		{
			name: "margem abaixo de 5% ainda permite reduzir orçamento",
			mutate: func(in *gateInput) {
				in.profile.MarginPercentage = 0.02
				in.decision.Kind = domain.DecisionBudgetDecrease
				in.decision.RecommendedValue = floatPtr(90)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.True(t, verdict.allowed)
				assert.InDelta(t, 90, *verdict.appliedValue, 0.001)
			},
		},
		{
			name: "margem entre 5% e 10% barra tudo com marcador de custo",
			mutate: func(in *gateInput) {
				in.profile.MarginPercentage = 0.07
				in.decision.Kind = domain.DecisionPauseCampaign
				in.decision.Confidence = 99
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateCostMargin, verdict.gate)
				assert.NotNil(t, verdict.blockedEvent)
				assert.Equal(t, domain.BlockedEventCostMargin, *verdict.blockedEvent)
			},
		},
		{
			name: "aumento de orçamento com lucro líquido negativo é barrado",
			mutate: func(in *gateInput) {
				in.profit.NetProfit = -12.5
				in.decision.Confidence = 99
				in.decision.RecommendedValue = floatPtr(110)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateNegativeProfit, verdict.gate)
			},
		},
		{
			name: "redução de orçamento passa mesmo com lucro negativo",
			mutate: func(in *gateInput) {
				in.profit.NetProfit = -12.5
				in.decision.Kind = domain.DecisionBudgetDecrease
				in.decision.RecommendedValue = floatPtr(90)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.True(t, verdict.allowed)
			},
		},
		{
			name: "mutação de orçamento sem valor recomendado é barrada",
			mutate: func(in *gateInput) {
				in.decision.RecommendedValue = nil
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateMissingValue, verdict.gate)
			},
		},
		{
			name: "valor recomendado acima do teto de sanidade é rejeitado",
			mutate: func(in *gateInput) {
				in.decision.RecommendedValue = floatPtr(50000)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateSanityBound, verdict.gate)
			},
		},
		{
			name: "valor recomendado abaixo do piso de sanidade é rejeitado",
			mutate: func(in *gateInput) {
				in.decision.Kind = domain.DecisionBudgetDecrease
				in.decision.RecommendedValue = floatPtr(0.5)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.False(t, verdict.allowed)
				assert.Equal(t, gateSanityBound, verdict.gate)
			},
		},
		{
			name: "aumento é limitado a 1.2x do orçamento atual",
			mutate: func(in *gateInput) {
				in.decision.RecommendedValue = floatPtr(300)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.True(t, verdict.allowed)
				assert.InDelta(t, 120, *verdict.appliedValue, 0.001)
			},
		},
		{
			name: "redução é limitada a 0.8x do orçamento atual",
			mutate: func(in *gateInput) {
				in.decision.Kind = domain.DecisionBudgetDecrease
				in.decision.RecommendedValue = floatPtr(10)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.True(t, verdict.allowed)
				assert.InDelta(t, 80, *verdict.appliedValue, 0.001)
			},
		},
		{
			name: "redução nunca fica abaixo do piso de orçamento diário",
			mutate: func(in *gateInput) {
				in.campaign.DailyBudget = 6
				in.decision.Kind = domain.DecisionBudgetDecrease
				in.decision.RecommendedValue = floatPtr(2)
			},
			validate: func(t *testing.T, verdict gateVerdict) {
				assert.True(t, verdict.allowed)
				assert.InDelta(t, 5, *verdict.appliedValue, 0.001)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseGateInput()
			tt.mutate(&in)

			verdict := evaluateGates(in)
			tt.validate(t, verdict)
		})
	}
}

func TestClampBudgetChange(t *testing.T) {
	tests := []struct {
		name        string
		kind        domain.DecisionKind
		current     float64
		recommended float64
		floor       float64
		expected    float64
	}{
		{
			name:        "aumento dentro do limite mantém o valor",
			kind:        domain.DecisionBudgetIncrease,
			current:     100,
			recommended: 115,
			floor:       5,
			expected:    115,
		},
		{
			name:        "aumento acima de 1.2x é capado",
			kind:        domain.DecisionBudgetIncrease,
			current:     100,
			recommended: 180,
			floor:       5,
			expected:    120,
		},
		{
			name:        "redução dentro do limite mantém o valor",
			kind:        domain.DecisionBudgetDecrease,
			current:     100,
			recommended: 85,
			floor:       5,
			expected:    85,
		},
		{
			name:        "redução abaixo de 0.8x é capada",
			kind:        domain.DecisionBudgetDecrease,
			current:     100,
			recommended: 40,
			floor:       5,
			expected:    80,
		},
		{
			name:        "piso absoluto vence o limite relativo",
			kind:        domain.DecisionBudgetDecrease,
			current:     5,
			recommended: 1,
			floor:       5,
			expected:    5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := clampBudgetChange(tt.kind, tt.current, tt.recommended, tt.floor)
			assert.InDelta(t, tt.expected, result, 0.001)
		})
	}
}
