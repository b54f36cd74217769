package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reelstack/reelstack-api/internal/container"
	"github.com/reelstack/reelstack-api/internal/domain/entity"
	handlers "github.com/reelstack/reelstack-api/internal/interface/http"
	"github.com/reelstack/reelstack-api/internal/interface/middleware"
	"github.com/reelstack/reelstack-api/pkg/token"
)

// IdentityModule wires the identity handlers into routes.
// Public: POST /api/users/register, POST /api/users/login.
// Admin:  GET /api/users, GET /api/users/:id.
type IdentityModule struct {
	Handler *handlers.IdentityHandler
	Issuer  *token.Issuer
}

func NewIdentityModule(h *handlers.IdentityHandler, issuer *token.Issuer) *IdentityModule {
	return &IdentityModule{Handler: h, Issuer: issuer}
}

func (m *IdentityModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/users/register", registerLimiter, m.Handler.Register)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)

	admin := rg.Group("/")
	admin.Use(middleware.Auth(m.Issuer), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/users", m.Handler.List)
		admin.GET("/users/:id", m.Handler.Get)
	}
}
