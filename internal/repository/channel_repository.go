package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
)

type ChannelRepository interface {
	Create(ctx context.Context, account *models.ChannelAccount) (int64, error)
	Get(ctx context.Context) (*models.ChannelAccount, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]*models.ChannelAccount, error)
	SetToken(ctx context.Context, id int64, accessToken string, expiresAt time.Time) error
}

type channelRepository struct {
	db *sql.DB
}

func NewChannelRepository(db *sql.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) Create(ctx context.Context, account *models.ChannelAccount) (int64, error) {
	query := `
		INSERT INTO channel_accounts (channel_id, channel_name, access_token, refresh_token, token_expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		account.ChannelID, account.ChannelName, account.AccessToken,
		account.RefreshToken, account.TokenExpiresAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *channelRepository) Get(ctx context.Context) (*models.ChannelAccount, error) {
	query := `SELECT id, channel_id, channel_name, access_token, refresh_token, token_expires_at, created_at FROM channel_accounts ORDER BY id LIMIT 1`
	row := r.db.QueryRowContext(ctx, query)

	var account models.ChannelAccount
	err := row.Scan(&account.ID, &account.ChannelID, &account.ChannelName,
		&account.AccessToken, &account.RefreshToken, &account.TokenExpiresAt, &account.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &account, nil
}

func (r *channelRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]*models.ChannelAccount, error) {
	query := `SELECT id, channel_id, channel_name, access_token, refresh_token, token_expires_at, created_at FROM channel_accounts WHERE token_expires_at BETWEEN $1 AND $2`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.ChannelAccount
	for rows.Next() {
		var account models.ChannelAccount
		err := rows.Scan(&account.ID, &account.ChannelID, &account.ChannelName,
			&account.AccessToken, &account.RefreshToken, &account.TokenExpiresAt, &account.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &account)
	}
	return accounts, nil
}

func (r *channelRepository) SetToken(ctx context.Context, id int64, accessToken string, expiresAt time.Time) error {
	query := `
		UPDATE channel_accounts
		SET access_token = $1,
			token_expires_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, accessToken, expiresAt, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
