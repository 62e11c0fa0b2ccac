package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/xixoi/ads-autopilot-api/infrastructure/database/postgres"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

const campaignMetricsTable = "campaign_metrics"

// PerformanceRepository agrega o desempenho diário persistido das campanhas
type PerformanceRepository interface {
	GetSnapshot(campaignID string, since time.Time) (*domain.PerformanceSnapshot, error)
}

type performanceRepository struct {
	conn *postgres.Connection
}

func NewPerformanceRepository(conn *postgres.Connection) PerformanceRepository {
	return &performanceRepository{
		conn: conn,
	}
}

// GetSnapshot soma as métricas da campanha a partir de since. Campanha sem
// linha alguma na janela retorna nil, não um snapshot zerado: o conductor
// só analisa campanhas com dado recente.
func (r *performanceRepository) GetSnapshot(campaignID string, since time.Time) (*domain.PerformanceSnapshot, error) {
	metricsSQL, metricsArgs, err := squirrel.
		Select(
			"COALESCE(SUM(spend), 0)",
			"COALESCE(SUM(revenue), 0)",
			"COALESCE(SUM(impressions), 0)",
			"COALESCE(SUM(clicks), 0)",
			"COALESCE(SUM(conversions), 0)",
			"COUNT(*)",
		).
		From(campaignMetricsTable).
		Where(squirrel.Eq{"campaign_id": campaignID}).
		Where(squirrel.GtOrEq{"metric_date": since}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	snapshot := &domain.PerformanceSnapshot{CampaignID: campaignID}
	var rowCount int

	err = r.conn.QueryRow(metricsSQL, metricsArgs...).Scan(
		&snapshot.Spend,
		&snapshot.Revenue,
		&snapshot.Impressions,
		&snapshot.Clicks,
		&snapshot.Conversions,
		&rowCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if rowCount == 0 {
		return nil, nil
	}

	snapshot.WindowDays = rowCount
	return snapshot, nil
}
