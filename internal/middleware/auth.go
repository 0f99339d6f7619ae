package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"resto-reviews-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware validates the bearer token and stores the resolved caller
// identity (username + roles) in the request context. Authorization policy
// itself is enforced downstream by the services.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			identity, err := parseToken(parts[1], jwtSecret)
			if err != nil {
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the caller identity from context. The zero Identity
// means the request went through no auth middleware.
func GetIdentity(ctx context.Context) models.Identity {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	if !ok {
		return models.Identity{}
	}
	return identity
}

// parseToken validates an HMAC-signed token and reads the subject and the
// roles claim
func parseToken(tokenString, jwtSecret string) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token claims")
	}

	identity := models.Identity{}
	if sub, ok := claims["sub"].(string); ok {
		identity.Username = sub
	}
	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, raw := range rawRoles {
			if role, ok := raw.(string); ok {
				identity.Roles = append(identity.Roles, role)
			}
		}
	}
	if identity.Username == "" {
		return models.Identity{}, fmt.Errorf("token has no subject")
	}
	return identity, nil
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
