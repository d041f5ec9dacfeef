package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"typerace/internal/service"
)

type contextKey string

const playerIDKey contextKey = "playerID"

// AuthMiddleware validates player tokens
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequirePlayer validates the bearer token and checks that it is scoped to
// the room in the path. The player identity lands in the request context.
func (m *AuthMiddleware) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing token"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidatePlayerToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		if code := mux.Vars(r)["code"]; code != "" && claims.RoomCode != code {
			http.Error(w, `{"error":"token not valid for this room"}`, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), playerIDKey, claims.PlayerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPlayerID extracts the authenticated player ID from the context
func GetPlayerID(ctx context.Context) string {
	id, _ := ctx.Value(playerIDKey).(string)
	return id
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// Fallback for clients that cannot set headers
	return r.URL.Query().Get("token")
}
