package router

import (
	"github.com/mwikya/authd/internal/application"
	"github.com/mwikya/authd/internal/container"
	pginfra "github.com/mwikya/authd/internal/infrastructure/postgres"
	handlers "github.com/mwikya/authd/internal/interface/http"
	"github.com/mwikya/authd/internal/router/modules"
	"github.com/mwikya/authd/pkg/hashing"
)

// InitModules wires repositories, the authenticator, and handlers from the
// container singletons and registers all feature modules. Called once at
// startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	audit := pginfra.NewAuditLogger(container.GetPGPool(), logger)
	hasher := hashing.NewBcrypt(cfg.BcryptCost)
	auth := application.NewAuthenticator(repo, hasher, logger)

	userHandler := handlers.NewUserHandler(auth, logger, audit, cfg.CookieDomain, cfg.CookieSecure)
	resetHandler := handlers.NewResetHandler(auth, logger, cfg, container.GetRabbitPub(), audit)

	r.Add(modules.NewUserModule(userHandler, auth))
	r.Add(modules.NewResetModule(resetHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
