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

const decisionLogTable = "decision_log"

// DecisionLogRepository persiste a trilha de auditoria das decisões.
// Toda decisão retornada pelo gateway vira exatamente uma linha aqui,
// inserida antes de qualquer tentativa de execução.
type DecisionLogRepository interface {
	Insert(entry *domain.DecisionLogEntry) error
	MarkExecuted(entryID string, appliedValue *float64) error
	ListSince(since time.Time) ([]*domain.DecisionLogEntry, error)
}

type decisionLogRepository struct {
	conn *postgres.Connection
}

func NewDecisionLogRepository(conn *postgres.Connection) DecisionLogRepository {
	return &decisionLogRepository{
		conn: conn,
	}
}

func (r *decisionLogRepository) Insert(entry *domain.DecisionLogEntry) error {
	sqlQuery, args, err := squirrel.StatementBuilder.
		Insert(decisionLogTable).
		Columns("id", "run_id", "user_id", "campaign_id", "kind", "confidence", "auto_execute", "reason", "recommended_value", "applied_value", "executed", "blocked_event", "created_at").
		Values(
			entry.ID,
			entry.RunID,
			entry.UserID,
			entry.CampaignID,
			entry.Kind,
			entry.Confidence,
			entry.AutoExecute,
			entry.Reason,
			entry.RecommendedValue,
			entry.AppliedValue,
			entry.Executed,
			entry.BlockedEvent,
			entry.CreatedAt,
		).
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

func (r *decisionLogRepository) MarkExecuted(entryID string, appliedValue *float64) error {
	sqlQuery, args, err := squirrel.
		Update(decisionLogTable).
		Set("executed", true).
		Set("applied_value", appliedValue).
		Where(squirrel.Eq{"id": entryID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *decisionLogRepository) ListSince(since time.Time) ([]*domain.DecisionLogEntry, error) {
	logSQL, logArgs, err := squirrel.
		Select("id, run_id, user_id, campaign_id, kind, confidence, auto_execute, reason, recommended_value, applied_value, executed, blocked_event, created_at").
		From(decisionLogTable).
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(logSQL, logArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.DecisionLogEntry, 0)

	for rows.Next() {
		entry := &domain.DecisionLogEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.RunID,
			&entry.UserID,
			&entry.CampaignID,
			&entry.Kind,
			&entry.Confidence,
			&entry.AutoExecute,
			&entry.Reason,
			&entry.RecommendedValue,
			&entry.AppliedValue,
			&entry.Executed,
			&entry.BlockedEvent,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
