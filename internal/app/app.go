// Package app provides application-level wiring for the authorization
// server: repositories, services, token verification, and startup
// seeding.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"paasd/internal/config"
	"paasd/internal/db/repository"
	"paasd/internal/service/authz"
	"paasd/internal/service/infra"
	"paasd/internal/service/retention"
	"paasd/internal/token"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers the API handler and router need.
type Services struct {
	Authz     *authz.Service
	Infra     *infra.Service
	Retention *retention.Sweeper
}

// App holds the fully wired application.
type App struct {
	Services Services
	Verifier token.Verifier

	Grants    *repository.GrantRepo
	Resources *repository.ResourceRepo
	Workspace *repository.WorkspaceRepo
}

// New wires repositories, services, and the token verifier from the
// provided deps. If a seed file is configured it is applied before
// returning, so the server never comes up half-seeded.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	grantRepo := repository.NewGrantRepo(deps.WriteDB)
	resourceRepo := repository.NewResourceRepo(deps.WriteDB, deps.ReadDB)
	workspaceRepo := repository.NewWorkspaceRepo(deps.WriteDB)

	authzSvc := authz.NewService(grantRepo, resourceRepo, deps.Logger)
	infraSvc := infra.NewService(resourceRepo, authzSvc, deps.Logger)
	sweeper := retention.NewSweeper(resourceRepo, cfg.RetentionWindow, deps.Logger)

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Services:  Services{Authz: authzSvc, Infra: infraSvc, Retention: sweeper},
		Verifier:  verifier,
		Grants:    grantRepo,
		Resources: resourceRepo,
		Workspace: workspaceRepo,
	}

	if cfg.SeedFile != "" {
		if err := a.SeedFromFile(ctx, cfg.SeedFile); err != nil {
			return nil, fmt.Errorf("apply seed file %s: %w", cfg.SeedFile, err)
		}
		deps.Logger.Info("seed file applied", "path", cfg.SeedFile)
	}

	return a, nil
}

// newVerifier picks the token verification mode: OIDC when an issuer or
// JWKS URL is configured, shared-secret HS256 otherwise.
func newVerifier(ctx context.Context, cfg *config.Config) (token.Verifier, error) {
	switch {
	case cfg.Auth.JWKSURL != "":
		return token.NewOIDCVerifierFromJWKS(ctx, cfg.Auth.JWKSURL, cfg.Auth.IssuerURL, cfg.Auth.Audience)
	case cfg.Auth.IssuerURL != "":
		return token.NewOIDCVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience)
	default:
		return token.NewHS256Verifier(cfg.Auth.JWTSecret)
	}
}
