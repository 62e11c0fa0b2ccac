package domain

import "time"

// UsageEvent é uma linha imutável do ledger de custo de IA/infra.
// O acumulado mensal nunca é um contador mutável: é sempre a soma do ledger
// filtrada pelo início do mês corrente, o que dispensa qualquer passo de reset.
type UsageEvent struct {
	ID         string    `json:"id"`
	UserID     int       `json:"user_id"`
	RunID      *string   `json:"run_id"`
	LLMCost    float64   `json:"llm_cost"`
	InfraCost  float64   `json:"infra_cost"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MonthlyUsage é a soma do ledger de um usuário no mês corrente
type MonthlyUsage struct {
	UserID    int     `json:"user_id"`
	LLMCost   float64 `json:"llm_cost"`
	InfraCost float64 `json:"infra_cost"`
}

// AutomationTask é uma tarefa agendada consumida por uma execução do conductor
type AutomationTask struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

const (
	AutomationTaskKindConductor   = "conductor"
	AutomationTaskStatusPending   = "pending"
	AutomationTaskStatusCompleted = "completed"
)

// Product é um produto rastreado do usuário; a margem média dos produtos
// alimenta as métricas de lucro das campanhas
type Product struct {
	ID            string  `json:"id"`
	UserID        int     `json:"user_id"`
	Name          string  `json:"name"`
	MarginPercent float64 `json:"margin_percent"`
}
