package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/emotipal/psychobot/core/logger"
	"github.com/emotipal/psychobot/internal/models"
)

// UserRepo owns the users table: registration, lookups, and the
// blocked flag consulted by access control.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo wraps the shared database handle.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ByTelegramID returns the user registered under the Telegram id.
func (r *UserRepo) ByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, telegram_id, username, is_blocked, created_at
		FROM users WHERE telegram_id = $1`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user (tg=%d): %w", telegramID, err)
	}
	return &u, nil
}

// Sync registers the user on first contact and refreshes the username
// on every /start after that.
func (r *UserRepo) Sync(ctx context.Context, telegramID int64, username string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (telegram_id)
		DO UPDATE SET username = COALESCE(NULLIF($2, ''), users.username)
		RETURNING id, telegram_id, username, is_blocked, created_at`,
		telegramID, username)
	if err != nil {
		return nil, fmt.Errorf("sync user (tg=%d): %w", telegramID, err)
	}
	logger.Debug(ctx, "service.users", "user.synced",
		slog.Int64("user_id", telegramID),
	)
	return &u, nil
}

// ResolveTelegramID maps a Telegram id to the internal user id.
// Returns ErrNotFound for unregistered users.
func (r *UserRepo) ResolveTelegramID(ctx context.Context, telegramID int64) (int64, error) {
	u, err := r.ByTelegramID(ctx, telegramID)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// IsBlocked reports whether the Telegram user is banned from the bot.
// Unknown users are not blocked.
func (r *UserRepo) IsBlocked(ctx context.Context, telegramID int64) (bool, error) {
	u, err := r.ByTelegramID(ctx, telegramID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsBlocked, nil
}

// CountAll reports the number of registered users, for the admin panel.
func (r *UserRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
