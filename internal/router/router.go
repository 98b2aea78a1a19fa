// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tickettrade/resale-market/internal/config"
	"github.com/tickettrade/resale-market/internal/handler"
	"github.com/tickettrade/resale-market/internal/middleware"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Concerts *handler.ConcertHandler
	Tickets  *handler.TicketHandler
	Orders   *handler.OrderHandler
	Popular  *handler.PopularHandler
}

// Register mounts all routes under /api.  Public browse GETs go through
// the Redis response cache; the whole API is rate limited; mutating
// routes on user-owned resources require a valid session; concert
// mutations additionally require the admin flag.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	session := middleware.Session(cfg.JWTSecret)
	admin := middleware.RequireAdmin()
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

	api := e.Group("/api", limit)

	// Auth. Logout works with or without a live session, so the token is
	// parsed leniently there rather than through the session middleware.
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)

	// Users: signup and reads are public (the signup form probes
	// /api/users?email= before submitting); edits require a session.
	api.GET("/users", h.Users.List)
	api.POST("/users", h.Users.Signup)
	api.GET("/users/:id", h.Users.Get)
	api.PUT("/users/:id", h.Users.Update, session)
	api.DELETE("/users/:id", h.Users.Delete, session)
	api.PUT("/users", h.Users.UpdateByBody, session)
	api.DELETE("/users", h.Users.DeleteByBody, session)

	// Concerts: browsing is public and cached; management is admin only.
	api.GET("/concerts", h.Concerts.List, cache)
	api.POST("/concerts", h.Concerts.Create, session, admin)
	api.PUT("/concerts", h.Concerts.Update, session, admin)
	api.DELETE("/concerts", h.Concerts.Delete, session, admin)

	// Tickets: browsing/search is public; listing and editing require a
	// session (ownership is enforced per record in the handler).
	api.GET("/tickets", h.Tickets.List)
	api.POST("/tickets", h.Tickets.Create, session)
	api.PUT("/tickets", h.Tickets.Update, session)
	api.DELETE("/tickets", h.Tickets.Delete, session)

	// Orders: everything requires a session; checkout is POST.
	api.GET("/orders", h.Orders.List, session)
	api.POST("/orders", h.Orders.Create, session)
	api.PUT("/orders", h.Orders.Update, session)
	api.DELETE("/orders", h.Orders.Delete, session)

	// Home page extras.  The popular board bumps its traffic counters on
	// every read, so it must not sit behind the response cache.
	api.GET("/popular-tickets", h.Popular.List)
	api.POST("/feedback", handler.Feedback)
}
