package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/timex"
)

// Environment variable names understood by parseEnv.
const (
	EnvAddress            = "ADDRESS"
	EnvDatabaseDSN        = "DATABASE_DSN"
	EnvAccessTokenSecret  = "ACCESS_TOKEN_SECRET"
	EnvRefreshTokenSecret = "REFRESH_TOKEN_SECRET"
	EnvAccessTokenExpiry  = "ACCESS_TOKEN_EXPIRY"
	EnvRefreshTokenExpiry = "REFRESH_TOKEN_EXPIRY"
	EnvCookieMaxAge       = "COOKIE_MAX_AGE"
	EnvCookieSecure       = "COOKIE_SECURE"
	EnvBcryptCost         = "BCRYPT_COST"
	EnvAllowedOrigins     = "ALLOWED_ORIGINS"
	EnvLogLevel           = "LOG_LEVEL"
)

// parseEnv overlays values from environment variables that are set and
// non-empty. Durations accept Go syntax, "Nd" days or bare minutes.
// Malformed values panic.
func parseEnv(config *Config) {
	lookupString(EnvAddress, &config.HTTPAddr)
	lookupString(EnvDatabaseDSN, &config.DatabaseDSN)
	lookupString(EnvAccessTokenSecret, &config.AccessTokenSecret)
	lookupString(EnvRefreshTokenSecret, &config.RefreshTokenSecret)
	lookupString(EnvLogLevel, &config.LogLevel)

	lookupDuration(EnvAccessTokenExpiry, &config.AccessTokenValidityDuration)
	lookupDuration(EnvRefreshTokenExpiry, &config.RefreshTokenValidityDuration)
	lookupDuration(EnvCookieMaxAge, &config.CookieMaxAge)

	if v, ok := lookup(EnvCookieSecure); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvCookieSecure, err))
		}
		config.CookieSecure = b
	}

	if v, ok := lookup(EnvBcryptCost); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvBcryptCost, err))
		}
		config.BcryptCost = n
	}

	if v, ok := lookup(EnvAllowedOrigins); ok {
		config.AllowedOrigins = splitList(v)
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func lookupString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func lookupDuration(key string, dst *time.Duration) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
