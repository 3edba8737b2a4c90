package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/estudai/backend/internal/auth"
	"github.com/estudai/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and injects user_id into the
// request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w, "Authentication required")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return auth.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(w, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(w, "Invalid token claims")
			return
		}
		uidFloat, ok := claims["user_id"].(float64)
		if !ok {
			unauthorized(w, "Invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), "user_id", int64(uidFloat))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: msg})
}
