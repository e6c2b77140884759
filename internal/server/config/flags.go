package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST bind address (e.g., ":8080")
//	-d string   database connection string
//	-s string   access token secret
//	-k string   refresh token secret
//	-t string   access token validity ("30m", "1h", bare minutes)
//	-r string   refresh token validity ("3d", "72h", bare minutes)
//	-m string   session cookie max-age
//	-b int      bcrypt cost
//	-o string   comma-separated CORS origins
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// components (e.g. -c) do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-k", "-t", "-r", "-m", "-b", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database connection string")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "k", config.RefreshTokenSecret, "refresh token secret")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.Func("t", "access token validity", durationFlag(&config.AccessTokenValidityDuration))
	fs.Func("r", "refresh token validity", durationFlag(&config.RefreshTokenValidityDuration))
	fs.Func("m", "session cookie max-age", durationFlag(&config.CookieMaxAge))
	fs.Func("o", "comma-separated CORS origins", func(v string) error {
		config.AllowedOrigins = splitList(v)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

func durationFlag(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := timex.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}
