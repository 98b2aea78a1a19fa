package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tickettrade/resale-market/internal/model"
	"github.com/tickettrade/resale-market/internal/queue"
	"github.com/tickettrade/resale-market/internal/repository"
)

// OrderHandler implements the /api/orders resource.  Checkout is a
// single database transaction: the listing is verified available,
// flipped to sold and the order inserted, so two buyers can never both
// purchase the same ticket.  Payment itself is simulated.
type OrderHandler struct {
	Orders  OrderStore
	Tickets TicketStore

	// Publish sends the confirmation event after a successful checkout.
	// Nil (or a failing publisher) never fails the purchase.
	Publish func(ctx context.Context, ev queue.OrderConfirmedEvent) error
}

func NewOrderHandler(o OrderStore, t TicketStore, publish func(context.Context, queue.OrderConfirmedEvent) error) *OrderHandler {
	return &OrderHandler{Orders: o, Tickets: t, Publish: publish}
}

type createOrderReq struct {
	TicketID uint64 `json:"ticketId"`
	Quantity int    `json:"quantity"`
}

// Create handles POST /api/orders (authenticated): the checkout.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TicketID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticketId is required"})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	order, err := h.Orders.Purchase(ctx, userID, req.TicketID, req.Quantity)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot buy your own ticket"})
		case repository.ErrTicketUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}

	if h.Publish != nil {
		ev := queue.OrderConfirmedEvent{
			OrderID:     order.ID,
			Reference:   order.Reference,
			BuyerID:     order.UserID,
			TicketID:    order.TicketID,
			Quantity:    order.Quantity,
			TotalPrice:  order.TotalPrice,
			ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if ticket, terr := h.Tickets.GetByID(ctx, order.TicketID); terr == nil {
			ev.SellerID = ticket.SellerID
			ev.TicketTitle = ticket.Title
			ev.Grade = ticket.Grade
			if ticket.Concert != nil {
				ev.ConcertTitle = ticket.Concert.Title
			}
		}
		_ = h.Publish(ctx, ev) // best-effort
	}

	return c.JSON(http.StatusCreated, order)
}

// List handles GET /api/orders (authenticated).  Admins see every
// order; everyone else sees only their own.
func (h *OrderHandler) List(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	scope := userID
	if sessionIsAdmin(c) {
		scope = 0 // all orders
	}
	orders, err := h.Orders.List(ctx, scope)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, orders)
}

type updateOrderReq struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

// Update handles PUT /api/orders (authenticated), id in the JSON body.
// Only the buyer or an admin may change an order; cancelling a pending
// order puts its ticket back on sale.
func (h *OrderHandler) Update(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order id is required"})
	}
	if !model.ValidOrderStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, req.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if order.UserID != userID && !sessionIsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot modify another user's order"})
	}

	updated, err := h.Orders.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update order failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/orders (admin only), id in the JSON body.
func (h *OrderHandler) Delete(c echo.Context) error {
	if !sessionIsAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin only"})
	}
	var req struct {
		ID uint64 `json:"id"`
	}
	if err := c.Bind(&req); err != nil || req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order id is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Orders.Delete(ctx, req.ID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete order failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
