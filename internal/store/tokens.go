// ABOUTME: Access token persistence methods for the SQLite store
// ABOUTME: Token rows are durable and non-expiring; deletion revokes the credential

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateAccessToken persists a new access token row. The owning user must
// exist; returns ErrUnknownUser otherwise, and ErrDuplicateToken if the
// signed string is already stored.
func (s *SQLiteStore) CreateAccessToken(ctx context.Context, token *AccessToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO access_tokens (user_id, token, description, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		token.UserID,
		token.Token,
		token.Description,
		token.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return ErrUnknownUser
		}
		if isUniqueConstraintError(err) {
			return ErrDuplicateToken
		}
		return fmt.Errorf("inserting access token: %w", err)
	}

	token.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting access token id: %w", err)
	}

	s.logger.Info("created access token", "id", token.ID, "user_id", token.UserID, "description", token.Description)
	return nil
}

// GetAccessTokenByToken retrieves an access token row by its signed string.
func (s *SQLiteStore) GetAccessTokenByToken(ctx context.Context, tokenString string) (*AccessToken, error) {
	query := `
		SELECT id, user_id, token, description, created_at
		FROM access_tokens
		WHERE token = ?
	`

	var token AccessToken
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, tokenString).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.Description,
		&createdAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccessTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying access token: %w", err)
	}

	token.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &token, nil
}

// ListAccessTokens returns all access tokens owned by a user.
func (s *SQLiteStore) ListAccessTokens(ctx context.Context, userID int64) ([]*AccessToken, error) {
	query := `
		SELECT id, user_id, token, description, created_at
		FROM access_tokens
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying access tokens: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tokens []*AccessToken
	for rows.Next() {
		var token AccessToken
		var createdAtStr string

		if err := rows.Scan(&token.ID, &token.UserID, &token.Token, &token.Description, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning access token: %w", err)
		}

		token.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		tokens = append(tokens, &token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating access tokens: %w", err)
	}

	return tokens, nil
}

// DeleteAccessToken removes an access token row, revoking the credential.
func (s *SQLiteStore) DeleteAccessToken(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting access token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAccessTokenNotFound
	}

	s.logger.Info("deleted access token", "id", id)
	return nil
}
