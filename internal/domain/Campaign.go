package domain

import "time"

// CampaignStatus representa o status de uma campanha
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// Campaign é uma campanha de anúncios pertencente a um usuário
type Campaign struct {
	ID                string         `json:"id"`
	UserID            int            `json:"user_id"`
	Name              string         `json:"name"`
	Status            CampaignStatus `json:"status"`
	DailyBudget       float64        `json:"daily_budget"`
	LifetimeBudget    *float64       `json:"lifetime_budget"`
	TotalSpent        float64        `json:"total_spent"`
	Targeting         *string        `json:"targeting"`
	AutoPauseEnabled  bool           `json:"auto_pause_enabled"`
	AutoBudgetEnabled bool           `json:"auto_budget_enabled"`
	PauseReason       *string        `json:"pause_reason"`
	PausedAt          *time.Time     `json:"paused_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PerformanceSnapshot agrega o desempenho recente de uma campanha
// dentro da janela de análise do conductor
type PerformanceSnapshot struct {
	CampaignID  string  `json:"campaign_id"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	WindowDays  int     `json:"window_days"`
}

// ProfitMetrics são as métricas de lucro derivadas por campanha.
// GrossProfit = receita × margem; NetProfit = lucro bruto − gasto.
type ProfitMetrics struct {
	CampaignID         string  `json:"campaign_id"`
	MarginPercent      float64 `json:"margin_percent"`
	GrossProfit        float64 `json:"gross_profit"`
	NetProfit          float64 `json:"net_profit"`
	MarginAdjustedROAS float64 `json:"margin_adjusted_roas"`
	BreakEvenROAS      float64 `json:"break_even_roas"`
}

// PublishResult registra o resultado da publicação em uma plataforma
type PublishResult struct {
	CampaignID  string     `json:"campaign_id"`
	Platform    Platform   `json:"platform"`
	ExternalID  string     `json:"external_id"`
	Status      string     `json:"status"`
	AccountName *string    `json:"account_name"`
	PublishedAt time.Time  `json:"published_at"`
}
