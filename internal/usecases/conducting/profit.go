package conducting

import "github.com/xixoi/ads-autopilot-api/internal/domain"

// deriveProfitMetrics deriva as métricas de lucro de uma campanha a partir
// do desempenho agregado e da margem média dos produtos do dono:
// lucro bruto = receita × margem%; lucro líquido = bruto − gasto;
// ROAS ajustado por margem = bruto / gasto (0 se o gasto é 0);
// ROAS de equilíbrio = 100 / margem% (constante de fallback se margem é 0).
func deriveProfitMetrics(snapshot *domain.PerformanceSnapshot, marginPercent, fallbackBreakEvenROAS float64) *domain.ProfitMetrics {
	grossProfit := snapshot.Revenue * (marginPercent / 100)
	netProfit := grossProfit - snapshot.Spend

	marginAdjustedROAS := 0.0
	if snapshot.Spend > 0 {
		marginAdjustedROAS = grossProfit / snapshot.Spend
	}

	breakEvenROAS := fallbackBreakEvenROAS
	if marginPercent > 0 {
		breakEvenROAS = 100 / marginPercent
	}

	return &domain.ProfitMetrics{
		CampaignID:         snapshot.CampaignID,
		MarginPercent:      marginPercent,
		GrossProfit:        grossProfit,
		NetProfit:          netProfit,
		MarginAdjustedROAS: marginAdjustedROAS,
		BreakEvenROAS:      breakEvenROAS,
	}
}
