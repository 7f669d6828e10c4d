package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/yanqian/playlist-recommender/internal/domain/auth"
	"github.com/yanqian/playlist-recommender/internal/infra/config"
	"github.com/yanqian/playlist-recommender/pkg/logger"
)

// tokengen mints an account token for automations calling the API. It reads
// the same configuration as the server, so the token verifies against it.
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("tokengen: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	account := fs.String("account", "", "account id placed in the token subject")
	ttl := fs.Duration("ttl", 0, "token lifetime; defaults to auth.tokenTtl")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Auth.Secret == "" {
		return errors.New("auth.secret is not configured")
	}
	authCfg := auth.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Required: cfg.Auth.Required,
		TokenTTL: cfg.Auth.TokenTTL,
	}
	if *ttl > 0 {
		authCfg.TokenTTL = *ttl
	}

	token, err := auth.NewService(authCfg, logger.New()).IssueToken(ctx, *account)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
