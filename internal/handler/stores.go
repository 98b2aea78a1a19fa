// Package handler implements the HTTP layer of the resale marketplace.
// Handlers depend on small store interfaces rather than the concrete
// repositories so tests can substitute in-memory fakes.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tickettrade/resale-market/internal/model"
	"github.com/tickettrade/resale-market/internal/repository"
)

// UserStore is the part of repository.UserRepo the handlers consume.
type UserStore interface {
	Create(ctx context.Context, email, password, username string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint64, email, username string) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, password string, cost int) error
	Delete(ctx context.Context, id uint64) error
}

// TokenStore persists refresh tokens for session rotation and
// revocation.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// ConcertStore is the part of repository.ConcertRepo the handlers consume.
type ConcertStore interface {
	Create(ctx context.Context, c *model.Concert) (model.Concert, error)
	GetByID(ctx context.Context, id uint64) (model.Concert, error)
	List(ctx context.Context, f repository.ConcertFilter) ([]model.Concert, error)
	Update(ctx context.Context, id uint64, c *model.Concert) (model.Concert, error)
	Delete(ctx context.Context, id uint64) error
}

// TicketStore is the part of repository.TicketRepo the handlers consume.
type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) (model.TicketWithConcert, error)
	GetByID(ctx context.Context, id uint64) (model.TicketWithConcert, error)
	List(ctx context.Context, f repository.TicketFilter) ([]model.TicketWithConcert, error)
	Update(ctx context.Context, id, sellerID uint64, t *model.Ticket) (model.TicketWithConcert, error)
	Delete(ctx context.Context, id, sellerID uint64) error
}

// OrderStore is the part of repository.OrderRepo the handlers consume.
type OrderStore interface {
	Purchase(ctx context.Context, userID, ticketID uint64, quantity int) (model.Order, error)
	GetByID(ctx context.Context, id uint64) (model.Order, error)
	List(ctx context.Context, userID uint64) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status string) (model.Order, error)
	Delete(ctx context.Context, id uint64) error
}

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// sessionUserID returns the user id injected by the session middleware.
func sessionUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("no user in context")
}

// sessionIsAdmin reports whether the session middleware flagged the
// caller as an admin.
func sessionIsAdmin(c echo.Context) bool {
	v, _ := c.Get("is_admin").(bool)
	return v
}
