package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/storefront/internal/admin"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	m, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	if err != nil {
		log.Fatalf("%v", err)
	}

	sessions := services.NewSessionService(m, auth.NewPasswordHasher(cfg.BcryptCost), tokens, logger)
	users := services.NewUserService(m, logger)

	app := admin.NewApp(sessions, users, os.Stdin, os.Stdout)
	if err := app.Run(ctx, commandArgs(os.Args[1:])); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

// commandArgs drops leading configuration flags so the command name comes
// first.
func commandArgs(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] != '-' {
			if i > 0 && isValueFlag(args[i-1]) {
				continue
			}
			return args[i:]
		}
	}
	return nil
}

func isValueFlag(a string) bool {
	switch a {
	case "-a", "-d", "-s", "-k", "-t", "-r", "-m", "-b", "-o", "-l", "-c", "-config":
		return true
	}
	return false
}
