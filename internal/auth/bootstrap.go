// ABOUTME: One-time root user bootstrap run at process start
// ABOUTME: Creates an admin "root" identity when none exists; idempotent

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/berthd/berth-gateway/internal/store"
)

// RootUsername is the bootstrap identity created on first start.
const RootUsername = "root"

// EnsureRootUser creates the root user with the admin flag set if no user
// named "root" exists yet. Safe to run on every start; a concurrent creation
// losing the uniqueness race is treated as success.
func EnsureRootUser(ctx context.Context, st store.Store, password string, logger *slog.Logger) error {
	_, err := st.GetUserByUsername(ctx, RootUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("checking for root user: %w", err)
	}

	_, err = st.CreateUser(ctx, RootUsername, password, true, false)
	if errors.Is(err, store.ErrDuplicateUsername) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating root user: %w", err)
	}

	logger.Info("created root user")
	return nil
}
