package handlers

import (
	"net/http"
	"time"
)

// Cookie names for the two transport credentials.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// cookieWriter sets and clears the token cookies. Both are HTTP-only and
// SameSite=Lax; Secure outside development.
type cookieWriter struct {
	accessTTL  time.Duration
	refreshTTL time.Duration
	secure     bool
}

func newCookieWriter(accessTTL, refreshTTL time.Duration, secure bool) *cookieWriter {
	return &cookieWriter{accessTTL: accessTTL, refreshTTL: refreshTTL, secure: secure}
}

func (c *cookieWriter) set(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(c.accessTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(c.refreshTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	})
}

func (c *cookieWriter) clear(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   c.secure,
		})
	}
}
