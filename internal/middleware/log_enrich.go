package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Wolfof420Street/Employee-Tracker/internal/auth"
	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
	"github.com/Wolfof420Street/Employee-Tracker/internal/session"
)

// private context keys for logging enrichment
type ctxKey string

const (
	ctxLogUserID ctxKey = "log_user_id"
	ctxLogRole   ctxKey = "log_role"
	ctxLogSeat   ctxKey = "log_seat"
)

// EnrichLogger stores user_id/role/seat into context for logging handlers
// to pick up. It runs ahead of RequireAuth on the outer chain, so it
// resolves the session cookie itself rather than relying on the context.
func EnrichLogger(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, ok := auth.SessionFromContext(ctx)
			if !ok || sess == nil {
				sess = auth.ReadSession(r, sessions)
			}
			if sess != nil {
				ctx = enrichSession(ctx, sess)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func enrichSession(ctx context.Context, sess *models.Session) context.Context {
	ctx = context.WithValue(ctx, ctxLogUserID, strconv.FormatInt(sess.UserID, 10))
	ctx = context.WithValue(ctx, ctxLogRole, string(sess.Role))
	if sess.Name != "" {
		ctx = context.WithValue(ctx, ctxLogSeat, sess.Name)
	}
	return ctx
}

// GetLogUserID returns the enriched user id if set.
func GetLogUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxLogUserID).(string)
	return v, ok && v != ""
}

// GetLogRole returns the enriched role if set.
func GetLogRole(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxLogRole).(string)
	return v, ok && v != ""
}

// GetLogSeat returns the enriched seat name if set.
func GetLogSeat(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxLogSeat).(string)
	return v, ok && v != ""
}
