package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when a request carries no user.
var ErrUnauthenticated = errors.New("user not authenticated")

// RequireAuth extracts user claims from context or returns ErrUnauthenticated
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok || claims.UID == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// NormalizePageSize returns a valid page size (default 20, max 100)
func NormalizePageSize(pageSize int32) int32 {
	if pageSize <= 0 {
		return 20
	}
	if pageSize > 100 {
		return 100
	}
	return pageSize
}

// WrapStoreError wraps store errors with operation context
func WrapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}
