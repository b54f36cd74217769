package router

import (
	"github.com/reelstack/reelstack-api/internal/application"
	"github.com/reelstack/reelstack-api/internal/container"
	pginfra "github.com/reelstack/reelstack-api/internal/infrastructure/postgres"
	handlers "github.com/reelstack/reelstack-api/internal/interface/http"
	"github.com/reelstack/reelstack-api/internal/router/modules"
)

// InitModules builds all application modules from the container
// singletons and registers them with the router registry. Called
// once during startup.
func InitModules(r *Registry) {
	pool := container.GetPGPool()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(pool)
	roles := pginfra.NewRoleRepository(pool)
	identity := application.NewIdentityService(users, roles, container.GetIssuer(), logger)

	categories := pginfra.NewCategoryRepository(pool)
	movies := pginfra.NewMovieRepository(pool)
	catalog := application.NewCatalogService(categories, movies, container.GetRedis(), logger)

	r.Add(modules.NewIdentityModule(handlers.NewIdentityHandler(identity, logger), container.GetIssuer()))
	r.Add(modules.NewCatalogModule(
		handlers.NewCategoryHandler(catalog, logger),
		handlers.NewMovieHandler(catalog, logger),
		container.GetIssuer(),
	))
}
