package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movielist/internal/config"
	"github.com/iliyamo/movielist/internal/handler"
	"github.com/iliyamo/movielist/internal/middleware"
)

// RegisterRoutes registers the unauthenticated utility routes: the health
// check for load balancers and the /home greeting.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/home", handler.Home)
}

// MovieRouteOptions carries the optional collaborators of the /movies routes.
// A nil Redis client disables caching; an AuthConfig without a secret
// leaves the write routes open.
type MovieRouteOptions struct {
	Cache config.CacheConfig
	Redis *redis.Client
	Auth  config.AuthConfig
}

// RegisterMovies mounts the catalog under /movies.  Reads go through the
// response cache; writes optionally require an admin token and bump the
// cache generation once they succeed.
func RegisterMovies(e *echo.Echo, h *handler.MovieHandler, opts MovieRouteOptions) {
	g := e.Group("/movies")

	read := middleware.NewRedisCache(opts.Cache, opts.Redis)

	var write []echo.MiddlewareFunc
	if opts.Auth.Enabled() {
		write = append(write,
			middleware.JWTAuth(opts.Auth.JWTSecret),
			middleware.RequireRole(handler.AdminRole),
		)
	}
	write = append(write, middleware.InvalidateCache(opts.Cache, opts.Redis))

	g.GET("", h.FindMovies, read)
	g.GET("/:id", h.FindByID, read)
	g.POST("", h.AddMovie, write...)
	g.DELETE("/:id", h.DeleteMovie, write...)
}

// RegisterAuth exposes the admin token endpoint.  It is only mounted when
// auth is enabled.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/auth/token", a.IssueToken)
}
