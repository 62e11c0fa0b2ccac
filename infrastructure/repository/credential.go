package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/xixoi/ads-autopilot-api/infrastructure/database/postgres"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

const credentialsTable = "platform_credentials"

// CredentialRepository é o store chaveado de credenciais. O upsert em
// (owner_type, owner_id, platform) garante no máximo um registro por chave;
// last-write-wins é aceitável para escritores concorrentes.
type CredentialRepository interface {
	GetCredential(ownerType domain.OwnerType, ownerID *int, platform domain.Platform) (*domain.Credential, error)
	SaveOrUpdate(credential *domain.Credential) error
	UpdateStatus(ownerType domain.OwnerType, ownerID *int, platform domain.Platform, status domain.CredentialStatus) error
	ListByUser(userID int) ([]*domain.Credential, error)
}

type credentialRepository struct {
	conn *postgres.Connection
}

func NewCredentialRepository(conn *postgres.Connection) CredentialRepository {
	return &credentialRepository{
		conn: conn,
	}
}

const credentialColumns = "id, owner_type, owner_id, platform, auth_scheme, access_token, refresh_token, consumer_key, consumer_secret, platform_account_id, account_name, status, expires_at, created_at, updated_at"

func (r *credentialRepository) GetCredential(ownerType domain.OwnerType, ownerID *int, platform domain.Platform) (*domain.Credential, error) {
	where := squirrel.Eq{
		"owner_type": ownerType,
		"platform":   platform,
	}
	// Credenciais do sistema não têm dono; a chave é (owner_type, platform)
	if ownerID != nil {
		where["owner_id"] = *ownerID
	} else {
		where["owner_id"] = nil
	}

	credentialSQL, credentialArgs, err := squirrel.
		Select(credentialColumns).
		From(credentialsTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(credentialSQL, credentialArgs...)

	credential, err := deserializeCredential(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return credential, nil
}

func (r *credentialRepository) SaveOrUpdate(credential *domain.Credential) error {
	query := squirrel.StatementBuilder.
		Insert(credentialsTable).
		Columns("id", "owner_type", "owner_id", "platform", "auth_scheme", "access_token", "refresh_token", "consumer_key", "consumer_secret", "platform_account_id", "account_name", "status", "expires_at").
		Values(
			credential.ID,
			credential.OwnerType,
			credential.OwnerID,
			credential.Platform,
			credential.AuthScheme,
			credential.AccessToken,
			credential.RefreshToken,
			credential.ConsumerKey,
			credential.ConsumerSecret,
			credential.PlatformAccountID,
			credential.AccountName,
			credential.Status,
			credential.ExpiresAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		Suffix(`
			ON CONFLICT (owner_type, owner_id, platform) DO UPDATE SET
				auth_scheme = EXCLUDED.auth_scheme,
				access_token = EXCLUDED.access_token,
				refresh_token = EXCLUDED.refresh_token,
				consumer_key = EXCLUDED.consumer_key,
				consumer_secret = EXCLUDED.consumer_secret,
				platform_account_id = EXCLUDED.platform_account_id,
				account_name = COALESCE(EXCLUDED.account_name, platform_credentials.account_name),
				status = EXCLUDED.status,
				expires_at = EXCLUDED.expires_at,
				updated_at = NOW()
		`)

	sqlQuery, args, err := query.ToSql()
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

func (r *credentialRepository) UpdateStatus(ownerType domain.OwnerType, ownerID *int, platform domain.Platform, status domain.CredentialStatus) error {
	where := squirrel.Eq{
		"owner_type": ownerType,
		"platform":   platform,
	}
	if ownerID != nil {
		where["owner_id"] = *ownerID
	} else {
		where["owner_id"] = nil
	}

	sqlQuery, args, err := squirrel.
		Update(credentialsTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
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

func (r *credentialRepository) ListByUser(userID int) ([]*domain.Credential, error) {
	credentialSQL, credentialArgs, err := squirrel.
		Select(credentialColumns).
		From(credentialsTable).
		Where(squirrel.Eq{"owner_type": domain.OwnerTypeUser, "owner_id": userID}).
		OrderBy("platform ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(credentialSQL, credentialArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	credentials := make([]*domain.Credential, 0)

	for rows.Next() {
		credential, err := deserializeCredentialRow(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return credentials, nil
}

func deserializeCredential(row *sql.Row) (*domain.Credential, error) {
	credential := &domain.Credential{}

	if err := row.Scan(
		&credential.ID,
		&credential.OwnerType,
		&credential.OwnerID,
		&credential.Platform,
		&credential.AuthScheme,
		&credential.AccessToken,
		&credential.RefreshToken,
		&credential.ConsumerKey,
		&credential.ConsumerSecret,
		&credential.PlatformAccountID,
		&credential.AccountName,
		&credential.Status,
		&credential.ExpiresAt,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return credential, nil
}

func deserializeCredentialRow(rows *sql.Rows) (*domain.Credential, error) {
	credential := &domain.Credential{}

	if err := rows.Scan(
		&credential.ID,
		&credential.OwnerType,
		&credential.OwnerID,
		&credential.Platform,
		&credential.AuthScheme,
		&credential.AccessToken,
		&credential.RefreshToken,
		&credential.ConsumerKey,
		&credential.ConsumerSecret,
		&credential.PlatformAccountID,
		&credential.AccountName,
		&credential.Status,
		&credential.ExpiresAt,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return credential, nil
}
