package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/auth"
	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	register *auth.Register
	login    *auth.Login
	refresh  *auth.Refresh
	logout   *auth.Logout
	lockout  ports.LoginLockoutStore
	cookies  *cookieWriter
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(register *auth.Register, login *auth.Login, refresh *auth.Refresh, logout *auth.Logout, lockout ports.LoginLockoutStore, accessTTL, refreshTTL time.Duration, secureCookies bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		refresh:  refresh,
		logout:   logout,
		lockout:  lockout,
		cookies:  newCookieWriter(accessTTL, refreshTTL, secureCookies),
		validate: validator.New(),
		log:      log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		FullName string `json:"fullName" validate:"required,max=120"`
		Password string `json:"password" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.register.Execute(r.Context(), auth.RegisterInput{
		Email:    email,
		FullName: body.FullName,
		Password: password,
	})
	if err != nil {
		AuditLog(h.log, r, "user.register", "", false, err.Error())
		middleware.RecordAuthAttempt("register", false)
		respondError(w, h.log, err)
		return
	}
	AuditLog(h.log, r, "user.register", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, http.StatusCreated, userJSON(result.User, nil))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	if locked, retryAfter := h.lockout.IsLocked(r.Context(), email); locked {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeErr(w, http.StatusTooManyRequests, ErrCodeAccountLocked, "too many failed attempts, try again later")
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{
		Email:    email,
		Password: SanitizePassword(body.Password),
	})
	if err != nil {
		h.lockout.RecordFailure(r.Context(), email)
		AuditLog(h.log, r, "user.login", "", false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		respondError(w, h.log, err)
		return
	}
	h.lockout.RecordSuccess(r.Context(), email)
	AuditLog(h.log, r, "user.login", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("login", true)
	h.cookies.set(w, result.AccessToken, result.RefreshToken)
	writeJSON(w, http.StatusOK, userJSON(result.User, nil))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token == "" {
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidToken, "no refresh token provided")
		return
	}
	result, err := h.refresh.Execute(r.Context(), auth.RefreshInput{RefreshToken: token})
	if err != nil {
		AuditLog(h.log, r, "auth.refresh", "", false, err.Error())
		middleware.RecordAuthAttempt("refresh", false)
		respondError(w, h.log, err)
		return
	}
	AuditLog(h.log, r, "auth.refresh", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("refresh", true)
	h.cookies.set(w, result.AccessToken, result.RefreshToken)
	writeJSON(w, http.StatusOK, userJSON(result.User, nil))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeErr(w, http.StatusUnauthorized, "", "authentication required")
		return
	}
	if token := refreshTokenFromRequest(r); token != "" {
		if err := h.logout.RevokeOne(r.Context(), token); err != nil {
			respondError(w, h.log, err)
			return
		}
	}
	// Invalidate every outstanding session, not just this device.
	if err := h.logout.RevokeAllForUser(r.Context(), identity.UserID); err != nil {
		respondError(w, h.log, err)
		return
	}
	AuditLog(h.log, r, "user.logout", identity.UserID.String(), true, "")
	h.cookies.clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		writeErr(w, http.StatusUnauthorized, "", "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"userId": identity.UserID.String(),
		"email":  identity.Email,
	})
}

func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(RefreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body.RefreshToken
}

// userJSON serializes a user for API responses. The password hash never appears.
func userJSON(user *domain.User, profile *domain.Profile) map[string]interface{} {
	out := map[string]interface{}{
		"id":        user.ID.String(),
		"email":     user.Email,
		"fullName":  user.FullName,
		"createdAt": user.CreatedAt,
		"updatedAt": user.UpdatedAt,
	}
	if profile != nil {
		out["profile"] = map[string]interface{}{
			"bio":       profile.Bio,
			"phone":     profile.Phone,
			"avatarUrl": profile.AvatarURL,
		}
	}
	return out
}
