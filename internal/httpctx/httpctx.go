package httpctx

import (
	"context"

	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// Session returns the session from context if available.
func Session(ctx context.Context) (*models.Session, bool) {
	return auth.SessionFromContext(ctx)
}

// UserID returns the seat id from the session in context.
func UserID(ctx context.Context) (int64, bool) {
	if s, ok := auth.SessionFromContext(ctx); ok && s != nil {
		return s.UserID, true
	}
	return 0, false
}

// Role returns the seat role from the session in context.
func Role(ctx context.Context) (models.Role, bool) {
	if s, ok := auth.SessionFromContext(ctx); ok && s != nil {
		return s.Role, true
	}
	return "", false
}
