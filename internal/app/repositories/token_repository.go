package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/db"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/dberrors"
	"github.com/yigit/collegeerp/internal/pkg/logger"
)

type tokenRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewTokenRepository creates a new API token repository
func NewTokenRepository(database *db.PostgresDB) TokenRepository {
	return &tokenRepository{database: database, sb: statementBuilder()}
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID int64, newKey string) (*models.AuthToken, error) {
	// ON CONFLICT keeps the existing key; the no-op update makes RETURNING yield it.
	t := &models.AuthToken{}
	err := r.database.Pool.QueryRow(ctx, `
		INSERT INTO auth_tokens (key, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING key, user_id, created_at`,
		newKey, userID,
	).Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error issuing API token")
		return nil, fmt.Errorf("error creating token: %w", err)
	}
	return t, nil
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	sql, args, err := r.sb.Select("key", "user_id", "created_at").
		From("auth_tokens").
		Where(squirrel.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get token query: %w", err)
	}

	t := &models.AuthToken{}
	if err := r.database.Pool.QueryRow(ctx, sql, args...).Scan(&t.Key, &t.UserID, &t.CreatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving token: %w", err)
	}
	return t, nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Delete("auth_tokens").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete token query: %w", err)
	}
	if _, err := r.database.Pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	return nil
}
