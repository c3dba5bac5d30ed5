package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nyius/HouseMarketplace/internal/usecase"
	"go.uber.org/zap"
)

type contextKey string

const identityCtxKey = contextKey("authenticatedIdentity")

// Claims is the token payload the identity provider issues. UserID is the
// stable uid; Name and Email feed the companion profile document.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IdentityFromContext extracts the acting user placed there by JWTAuth.
func IdentityFromContext(ctx context.Context) (usecase.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(usecase.Identity)
	return id, ok
}

// JWTAuth validates the bearer token and injects the acting user's identity
// into the request context.
func JWTAuth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSONError(w, http.StatusUnauthorized, "authorization token format is invalid, expected 'Bearer <token>'")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("JWTAuth: token validation failed", zap.Error(err))
				writeJSONError(w, http.StatusUnauthorized, "token is invalid")
				return
			}
			if claims.UserID == "" {
				writeJSONError(w, http.StatusUnauthorized, "user_id not found in token claims")
				return
			}

			identity := usecase.Identity{ID: claims.UserID, Name: claims.Name, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityCtxKey, identity)))
		})
	}
}

// RequestLogger logs method, path, status and duration of every request.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
