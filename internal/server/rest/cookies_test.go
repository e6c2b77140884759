package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "none"},
		{name: "cookie", cookie: "c-token", want: "c-token"},
		{name: "bearer", header: "Bearer h-token", want: "h-token"},
		{name: "bearer lowercase", header: "bearer h-token", want: "h-token"},
		{name: "cookie wins", cookie: "c-token", header: "Bearer h-token", want: "c-token"},
		{name: "other scheme", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, accessToken(r))
		})
	}
}

func TestRefreshToken_MalformedBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	_, err := refreshToken(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorValidation)
}
