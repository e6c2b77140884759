package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

// CookieConfig controls the session cookies.
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

func (c CookieConfig) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (c CookieConfig) setSession(w http.ResponseWriter, pair *services.TokenPair) {
	maxAge := int(c.MaxAge.Seconds())
	http.SetCookie(w, c.cookie(common.AccessTokenCookieName, pair.AccessToken, maxAge))
	http.SetCookie(w, c.cookie(common.RefreshTokenCookieName, pair.RefreshToken, maxAge))
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(common.AccessTokenCookieName, "", -1))
	http.SetCookie(w, c.cookie(common.RefreshTokenCookieName, "", -1))
}

// accessToken returns the access token from the AccessToken cookie or, if
// absent, from an "Authorization: Bearer" header.
func accessToken(r *http.Request) string {
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, common.BearerScheme) {
		return strings.TrimSpace(token)
	}
	return ""
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshToken returns the refresh token from the RefreshToken cookie or
// the optional JSON body {"refreshToken": "..."}.
func refreshToken(r *http.Request) (string, error) {
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	var req refreshRequest
	if err := decodeJSON(r, &req, true); err != nil {
		return "", err
	}
	return req.RefreshToken, nil
}
