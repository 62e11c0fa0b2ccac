package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/xixoi/ads-autopilot-api/infrastructure/database/postgres"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

const (
	campaignsTable      = "campaigns"
	publishResultsTable = "campaign_publish_results"
)

type CampaignRepository interface {
	GetCampaignByID(campaignID string) (*domain.Campaign, error)
	ListActiveCampaigns() ([]*domain.Campaign, error)
	ListCampaignsByUser(userID int) ([]*domain.Campaign, error)
	UpdateDailyBudget(campaignID string, dailyBudget float64) error
	UpdateAutomationSettings(campaignID string, autoPause, autoBudget bool) error
	PauseCampaign(campaignID string, reason string, pausedAt time.Time) error
	ResumeCampaign(campaignID string) error
	SavePublishResult(result *domain.PublishResult) error
}

type campaignRepository struct {
	conn *postgres.Connection
}

func NewCampaignRepository(conn *postgres.Connection) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

const campaignColumns = "id, user_id, name, status, daily_budget, lifetime_budget, total_spent, targeting, auto_pause_enabled, auto_budget_enabled, pause_reason, paused_at, created_at, updated_at"

func (r *campaignRepository) GetCampaignByID(campaignID string) (*domain.Campaign, error) {
	campaignSQL, campaignArgs, err := squirrel.
		Select(campaignColumns).
		From(campaignsTable).
		Where(squirrel.Eq{"id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	campaign := &domain.Campaign{}
	err = r.conn.QueryRow(campaignSQL, campaignArgs...).Scan(
		&campaign.ID,
		&campaign.UserID,
		&campaign.Name,
		&campaign.Status,
		&campaign.DailyBudget,
		&campaign.LifetimeBudget,
		&campaign.TotalSpent,
		&campaign.Targeting,
		&campaign.AutoPauseEnabled,
		&campaign.AutoBudgetEnabled,
		&campaign.PauseReason,
		&campaign.PausedAt,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return campaign, nil
}

func (r *campaignRepository) ListActiveCampaigns() ([]*domain.Campaign, error) {
	return r.listCampaigns(squirrel.Eq{"status": domain.CampaignStatusActive})
}

func (r *campaignRepository) ListCampaignsByUser(userID int) ([]*domain.Campaign, error) {
	return r.listCampaigns(squirrel.Eq{"user_id": userID})
}

func (r *campaignRepository) listCampaigns(where squirrel.Eq) ([]*domain.Campaign, error) {
	campaignSQL, campaignArgs, err := squirrel.
		Select(campaignColumns).
		From(campaignsTable).
		Where(where).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(campaignSQL, campaignArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)

	for rows.Next() {
		campaign := &domain.Campaign{}
		if err := rows.Scan(
			&campaign.ID,
			&campaign.UserID,
			&campaign.Name,
			&campaign.Status,
			&campaign.DailyBudget,
			&campaign.LifetimeBudget,
			&campaign.TotalSpent,
			&campaign.Targeting,
			&campaign.AutoPauseEnabled,
			&campaign.AutoBudgetEnabled,
			&campaign.PauseReason,
			&campaign.PausedAt,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return campaigns, nil
}

func (r *campaignRepository) UpdateDailyBudget(campaignID string, dailyBudget float64) error {
	if campaignID == "" {
		return errors.New("campaign ID is required")
	}

	sqlQuery, args, err := squirrel.
		Update(campaignsTable).
		Set("daily_budget", dailyBudget).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.execExpectingRow(sqlQuery, args)
}

func (r *campaignRepository) UpdateAutomationSettings(campaignID string, autoPause, autoBudget bool) error {
	if campaignID == "" {
		return errors.New("campaign ID is required")
	}

	sqlQuery, args, err := squirrel.
		Update(campaignsTable).
		Set("auto_pause_enabled", autoPause).
		Set("auto_budget_enabled", autoBudget).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.execExpectingRow(sqlQuery, args)
}

// PauseCampaign pausa a campanha registrando motivo e horário.
// Campanha pausada nunca fica sem motivo.
func (r *campaignRepository) PauseCampaign(campaignID string, reason string, pausedAt time.Time) error {
	if reason == "" {
		return errors.New("pause reason is required")
	}

	sqlQuery, args, err := squirrel.
		Update(campaignsTable).
		Set("status", domain.CampaignStatusPaused).
		Set("pause_reason", reason).
		Set("paused_at", pausedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.execExpectingRow(sqlQuery, args)
}

func (r *campaignRepository) ResumeCampaign(campaignID string) error {
	sqlQuery, args, err := squirrel.
		Update(campaignsTable).
		Set("status", domain.CampaignStatusActive).
		Set("pause_reason", nil).
		Set("paused_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": campaignID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.execExpectingRow(sqlQuery, args)
}

func (r *campaignRepository) SavePublishResult(result *domain.PublishResult) error {
	sqlQuery, args, err := squirrel.StatementBuilder.
		Insert(publishResultsTable).
		Columns("campaign_id", "platform", "external_id", "status", "account_name", "published_at").
		Values(result.CampaignID, result.Platform, result.ExternalID, result.Status, result.AccountName, result.PublishedAt).
		PlaceholderFormat(squirrel.Dollar).
		Suffix(`
			ON CONFLICT (campaign_id, platform) DO UPDATE SET
				external_id = EXCLUDED.external_id,
				status = EXCLUDED.status,
				account_name = EXCLUDED.account_name,
				published_at = EXCLUDED.published_at
		`).
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

func (r *campaignRepository) execExpectingRow(sqlQuery string, args []interface{}) error {
	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.New("campaign not found")
	}

	return nil
}
