package conducting

import (
	"fmt"
	"strings"

	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

// systemPrompt instrui o gateway a agir como otimizador e devolver o plano
// no schema estruturado registrado
const systemPrompt = `You are the autonomous campaign optimizer of an advertising platform.
Analyze the account context below and propose optimization decisions for the listed campaigns.
Every decision must reference an existing campaign id, carry a confidence between 0 and 100,
and set auto_execute only when you are certain the action is safe.
Respect every COST PROTECTION rule verbatim; they are not suggestions.
Return your answer strictly in the requested structured schema, with a short human-readable
summary and a profit-focused summary.`

// userContext agrupa tudo que o documento de contexto precisa sobre um usuário
type userContext struct {
	user          *domain.User
	profile       *domain.CostProfile
	marginPercent float64
	campaigns     []*campaignContext
}

type campaignContext struct {
	campaign *domain.Campaign
	snapshot *domain.PerformanceSnapshot
	profit   *domain.ProfitMetrics
}

// buildContextDocument monta o documento único em linguagem natural enviado
// ao gateway: bloco de proteção de custo por usuário, com os campos exatos
// e o texto de regras obrigatórias, seguido das métricas de lucro por
// campanha
func buildContextDocument(users []*userContext) string {
	var b strings.Builder

	for _, uc := range users {
		profile := uc.profile

		b.WriteString("=== ACCOUNT CONTEXT ===\n")
		fmt.Fprintf(&b, "userId: %d\n", profile.UserID)
		fmt.Fprintf(&b, "tier: %s\n", profile.Tier)
		fmt.Fprintf(&b, "tierLimit: %.2f\n", profile.TierLimit)
		fmt.Fprintf(&b, "totalCost: %.4f\n", profile.TotalCost)
		fmt.Fprintf(&b, "marginRemaining: %.4f\n", profile.MarginRemaining)
		fmt.Fprintf(&b, "marginPercentage: %.4f\n", profile.MarginPercentage)
		fmt.Fprintf(&b, "status: %s\n", profile.Status)
		fmt.Fprintf(&b, "autopilotMode: %s\n", uc.user.AutopilotMode)
		fmt.Fprintf(&b, "averageProductMarginPercent: %.2f\n", uc.marginPercent)

		b.WriteString("COST PROTECTION - OBLIGATORY RULES:\n")
		b.WriteString("- If status is \"blocked\" or \"exceeded\", you MUST NOT propose any decision with auto_execute=true for this user other than pause_campaign or budget_decrease.\n")
		b.WriteString("- If status is \"critical\", propose conservative actions only and never auto_execute budget increases.\n")
		b.WriteString("- Never propose a budget_increase for a campaign whose net profit is negative.\n")
		b.WriteString("- Recommended daily budgets must stay within a 20% change of the current budget.\n")

		for _, cc := range uc.campaigns {
			campaign := cc.campaign
			snapshot := cc.snapshot
			profit := cc.profit

			b.WriteString("--- CAMPAIGN ---\n")
			fmt.Fprintf(&b, "campaignId: %s\n", campaign.ID)
			fmt.Fprintf(&b, "name: %s\n", campaign.Name)
			fmt.Fprintf(&b, "status: %s\n", campaign.Status)
			fmt.Fprintf(&b, "dailyBudget: %.2f\n", campaign.DailyBudget)
			fmt.Fprintf(&b, "autoPauseEnabled: %t\n", campaign.AutoPauseEnabled)
			fmt.Fprintf(&b, "autoBudgetEnabled: %t\n", campaign.AutoBudgetEnabled)
			fmt.Fprintf(&b, "windowDays: %d\n", snapshot.WindowDays)
			fmt.Fprintf(&b, "spend: %.2f\n", snapshot.Spend)
			fmt.Fprintf(&b, "revenue: %.2f\n", snapshot.Revenue)
			fmt.Fprintf(&b, "impressions: %d\n", snapshot.Impressions)
			fmt.Fprintf(&b, "clicks: %d\n", snapshot.Clicks)
			fmt.Fprintf(&b, "conversions: %d\n", snapshot.Conversions)
			fmt.Fprintf(&b, "grossProfit: %.2f\n", profit.GrossProfit)
			fmt.Fprintf(&b, "netProfit: %.2f\n", profit.NetProfit)
			fmt.Fprintf(&b, "marginAdjustedROAS: %.2f\n", profit.MarginAdjustedROAS)
			fmt.Fprintf(&b, "breakEvenROAS: %.2f\n", profit.BreakEvenROAS)
		}

		b.WriteString("\n")
	}

	return b.String()
}
