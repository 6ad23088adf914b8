package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/application/ports"
)

// AccessTokenCookie is the transport credential set on login and refresh.
const AccessTokenCookie = "access_token"

// AuthValidator extracts the access token from the access_token cookie
// (Authorization: Bearer as a fallback), verifies it, and sets the caller
// identity in context.
type AuthValidator struct {
	codec ports.TokenCodec
}

func NewAuthValidator(codec ports.TokenCodec) *AuthValidator {
	return &AuthValidator{codec: codec}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			writeAuthErr(w, "missing credentials")
			return
		}
		claims, err := m.codec.VerifyAccessToken(tokenString)
		if err != nil {
			writeAuthErr(w, "invalid token")
			return
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			writeAuthErr(w, "invalid token")
			return
		}
		ctx := WithIdentity(r.Context(), userID, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeAuthErr(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "unauthorized"})
}
