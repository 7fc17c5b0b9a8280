package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const ServiceKey contextKey = "service"

// ServiceAuth guards the backend with short-lived HS256 tokens minted by
// trusted callers such as the chat client. A nil *ServiceAuth or an empty
// secret disables the check.
type ServiceAuth struct {
	Secret []byte
}

func NewServiceAuth(secret string) *ServiceAuth {
	if secret == "" {
		return nil
	}
	return &ServiceAuth{Secret: []byte(secret)}
}

// GenerateServiceToken creates a JWT with a 5 minute expiry
func (a *ServiceAuth) GenerateServiceToken(service string) (string, error) {
	claims := jwt.MapClaims{
		"sub": service,
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// Middleware validates the bearer token and attaches the calling service to context
func (a *ServiceAuth) Middleware(next http.Handler) http.Handler {
	if a == nil || len(a.Secret) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.Secret, nil
		})

		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", r)
			return
		}

		service, _ := claims["sub"].(string)
		if service == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid service in token", r)
			return
		}

		ctx := context.WithValue(r.Context(), ServiceKey, service)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetService extracts the calling service from request context
func GetService(ctx context.Context) string {
	s, _ := ctx.Value(ServiceKey).(string)
	return s
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": r.Header.Get(RequestIDHeader),
		},
	})
}
