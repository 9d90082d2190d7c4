package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"expvote/pkg/errors"
	"expvote/pkg/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ContextKey represents keys used in request context
type ContextKey string

// IdentityContextKey is the key for the authenticated identity in context
const IdentityContextKey ContextKey = "identity"

// TokenValidator turns a bearer token into the caller identity
type TokenValidator interface {
	Validate(token string) (string, error)
}

// Auth rejects requests without a valid bearer token and stores the identity in context
func Auth(validator TokenValidator, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, r, errors.NewAuthenticationError("Authorization header is required"), logger)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, r, errors.NewAuthenticationError("Invalid authorization header format"), logger)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if token == "" {
				writeErrorResponse(w, r, errors.NewAuthenticationError("Token is required"), logger)
				return
			}

			identity, err := validator.Validate(token)
			if err != nil {
				appErr := errors.FromError(err, nil)
				if appErr.Type == errors.ErrorTypeInternal {
					appErr = errors.NewAuthenticationError("Invalid or expired token")
				}
				writeErrorResponse(w, r, appErr, logger)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			logger.WithField("identity", identity).Debug("Request authenticated")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a context carrying identity
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// IdentityFromContext returns the authenticated identity, if any
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(string)
	return identity, ok && identity != ""
}

// RequestLogger logs one line per request with the chi request id
func RequestLogger(logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, r *http.Request, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithFields(map[string]interface{}{
		"request_id": chimw.GetReqID(r.Context()),
		"path":       r.URL.Path,
	}).WithError(appErr).Warn("Request rejected")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(errors.ErrorResponse{Success: false, Error: appErr})
}
