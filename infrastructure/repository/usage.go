package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/xixoi/ads-autopilot-api/infrastructure/database/postgres"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

const usageEventsTable = "ai_usage_events"

// UsageRepository é o ledger imutável de custo de IA/infra. O acumulado
// mensal é sempre a soma filtrada pelo início do mês passado como parâmetro,
// nunca um contador que precise de reset.
type UsageRepository interface {
	Insert(event *domain.UsageEvent) error
	SumSince(userID int, since time.Time) (*domain.MonthlyUsage, error)
}

type usageRepository struct {
	conn *postgres.Connection
}

func NewUsageRepository(conn *postgres.Connection) UsageRepository {
	return &usageRepository{
		conn: conn,
	}
}

func (r *usageRepository) Insert(event *domain.UsageEvent) error {
	sqlQuery, args, err := squirrel.StatementBuilder.
		Insert(usageEventsTable).
		Columns("id", "user_id", "run_id", "llm_cost", "infra_cost", "occurred_at").
		Values(event.ID, event.UserID, event.RunID, event.LLMCost, event.InfraCost, event.OccurredAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *usageRepository) SumSince(userID int, since time.Time) (*domain.MonthlyUsage, error) {
	usageSQL, usageArgs, err := squirrel.
		Select("COALESCE(SUM(llm_cost), 0)", "COALESCE(SUM(infra_cost), 0)").
		From(usageEventsTable).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"occurred_at": since}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	usage := &domain.MonthlyUsage{UserID: userID}
	err = r.conn.QueryRow(usageSQL, usageArgs...).Scan(&usage.LLMCost, &usage.InfraCost)
	if err != nil {
		if err == sql.ErrNoRows {
			return usage, nil
		}
		return nil, err
	}

	return usage, nil
}
