package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/DannyJSullivan/card-inventory-api/pkg/errors"
	"github.com/DannyJSullivan/card-inventory-api/pkg/httputil"
	"github.com/DannyJSullivan/card-inventory-api/pkg/logger"
)

type contextKeyType string

const (
	subjectKey contextKeyType = "subject"
	tokenKey   contextKeyType = "bearer_token"
)

// TokenValidator checks a bearer token and returns its subject. Errors that
// are not *apperrors.AppError are reported as a generic 401.
type TokenValidator func(ctx context.Context, token string) (subject string, err error)

// Auth requires an "Authorization: Bearer <token>" header, validates the token
// and stores both the raw token and its subject in the request context. The
// request-scoped logger is enriched with the subject as username.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				httputil.WriteError(w, r, apperrors.Unauthorized("Not authenticated"), nil)
				return
			}

			subject, err := validate(r.Context(), token)
			if err != nil {
				var appErr *apperrors.AppError
				if !errors.As(err, &appErr) {
					err = apperrors.Unauthorized("Could not validate credentials")
				}
				httputil.WriteError(w, r, err, nil)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			ctx = context.WithValue(ctx, tokenKey, token)
			ctx = logger.WithUsername(ctx, subject)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("username", subject)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an Authorization header using the
// Bearer scheme (case-insensitive).
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// SubjectFromContext returns the subject set by Auth or "".
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// TokenFromContext returns the bearer token accepted by Auth or "".
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
