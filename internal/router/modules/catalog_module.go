package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/reelstack/reelstack-api/internal/domain/entity"
	handlers "github.com/reelstack/reelstack-api/internal/interface/http"
	"github.com/reelstack/reelstack-api/internal/interface/middleware"
	"github.com/reelstack/reelstack-api/pkg/token"
)

// CatalogModule wires category and movie routes.
// Reads are public; mutations require an Admin token.
type CatalogModule struct {
	Categories *handlers.CategoryHandler
	Movies     *handlers.MovieHandler
	Issuer     *token.Issuer
}

func NewCatalogModule(categories *handlers.CategoryHandler, movies *handlers.MovieHandler, issuer *token.Issuer) *CatalogModule {
	return &CatalogModule{Categories: categories, Movies: movies, Issuer: issuer}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", m.Categories.List)
	rg.GET("/categories/:id", m.Categories.Get)
	rg.GET("/categories/:id/movies", m.Categories.Movies)

	rg.GET("/movies", m.Movies.List)
	rg.GET("/movies/search", m.Movies.Search)
	rg.GET("/movies/:id", m.Movies.Get)

	admin := rg.Group("/")
	admin.Use(middleware.Auth(m.Issuer), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("/categories", m.Categories.Create)
		admin.PUT("/categories/:id", m.Categories.Update)
		admin.DELETE("/categories/:id", m.Categories.Delete)

		admin.POST("/movies", m.Movies.Create)
		admin.PUT("/movies/:id", m.Movies.Update)
		admin.DELETE("/movies/:id", m.Movies.Delete)
	}
}
