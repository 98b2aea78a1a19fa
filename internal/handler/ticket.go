package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tickettrade/resale-market/internal/model"
	"github.com/tickettrade/resale-market/internal/repository"
)

// TicketHandler implements the /api/tickets resource: resale listings
// created by sellers, browsed by everyone, and mutable only by their
// owner.
type TicketHandler struct {
	Tickets  TicketStore
	Concerts ConcertStore
}

func NewTicketHandler(t TicketStore, con ConcertStore) *TicketHandler {
	return &TicketHandler{Tickets: t, Concerts: con}
}

// List handles GET /api/tickets.  With ?id= the single listing (with its
// concert) is returned; otherwise the list filtered by concertId,
// sellerId, status, grade and the free-text query (title/description
// substring, case-insensitive), newest first.  A query matching nothing
// returns an empty list.
func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	if idStr := c.QueryParam("id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
		}
		ticket, err := h.Tickets.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, ticket)
	}

	filter := repository.TicketFilter{
		Status: strings.TrimSpace(c.QueryParam("status")),
		Grade:  strings.TrimSpace(c.QueryParam("grade")),
		Query:  strings.TrimSpace(c.QueryParam("query")),
	}
	if v := c.QueryParam("concertId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concertId"})
		}
		filter.ConcertID = id
	}
	if v := c.QueryParam("sellerId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sellerId"})
		}
		filter.SellerID = id
	}

	tickets, err := h.Tickets.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tickets)
}

// Create handles POST /api/tickets (authenticated).  The seller is
// always the session user; a client-supplied sellerId is ignored.  The
// referenced concert must exist, the grade must be known, and the
// original price defaults to the asking price.
func (h *TicketHandler) Create(c echo.Context) error {
	sellerID, err := sessionUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body model.Ticket
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.ConcertID == 0 || body.Title == "" || body.Price <= 0 || body.Quantity <= 0 || body.Grade == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "concertId, title, price, quantity and grade are required"})
	}
	if !model.ValidTicketGrade(body.Grade) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid grade"})
	}
	if body.Status != "" && !model.ValidTicketStatus(body.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Concerts.GetByID(ctx, body.ConcertID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	body.SellerID = sellerID
	ticket, err := h.Tickets.Create(ctx, &body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}
	return c.JSON(http.StatusCreated, ticket)
}

// Update handles PUT /api/tickets (authenticated), id in the JSON body.
// Only the owning seller may update; anyone else gets 403 and the record
// stays unchanged.
func (h *TicketHandler) Update(c echo.Context) error {
	sellerID, err := sessionUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ID uint64 `json:"id"`
		model.Ticket
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket id is required"})
	}
	if body.Grade != "" && !model.ValidTicketGrade(body.Grade) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid grade"})
	}
	if body.Ticket.Status != "" && !model.ValidTicketStatus(body.Ticket.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	ticket, err := h.Tickets.Update(ctx, body.ID, sellerID, &body.Ticket)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the seller can update this ticket"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update ticket failed"})
	}
	return c.JSON(http.StatusOK, ticket)
}

// Delete handles DELETE /api/tickets (authenticated), id in the JSON
// body.  Only the owning seller may delete.
func (h *TicketHandler) Delete(c echo.Context) error {
	sellerID, err := sessionUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ID uint64 `json:"id"`
	}
	if err := c.Bind(&body); err != nil || body.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket id is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Tickets.Delete(ctx, body.ID, sellerID); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the seller can delete this ticket"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete ticket failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
