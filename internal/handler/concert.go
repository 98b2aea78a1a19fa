package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tickettrade/resale-market/internal/model"
	"github.com/tickettrade/resale-market/internal/repository"
)

// ConcertHandler implements the /api/concerts resource.  Reads are
// public; mutations are wrapped in the admin middleware by the router.
type ConcertHandler struct {
	Concerts ConcertStore
}

func NewConcertHandler(s ConcertStore) *ConcertHandler {
	return &ConcertHandler{Concerts: s}
}

// List handles GET /api/concerts.  With ?id= it returns the single
// concert; otherwise the list filtered by category, status and the
// free-text query (title/artist/venue substring, case-insensitive),
// ordered by date.
func (h *ConcertHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	if idStr := c.QueryParam("id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
		}
		concert, err := h.Concerts.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, concert)
	}

	filter := repository.ConcertFilter{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Status:   strings.TrimSpace(c.QueryParam("status")),
		Query:    strings.TrimSpace(c.QueryParam("query")),
	}
	concerts, err := h.Concerts.List(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, concerts)
}

// Create handles POST /api/concerts (admin).
func (h *ConcertHandler) Create(c echo.Context) error {
	var body model.Concert
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Title == "" || body.Artist == "" || body.Date == "" || body.Venue == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, artist, date and venue are required"})
	}
	if body.Status != "" && !model.ValidConcertStatus(body.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	concert, err := h.Concerts.Create(ctx, &body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create concert failed"})
	}
	return c.JSON(http.StatusCreated, concert)
}

// Update handles PUT /api/concerts (admin), id in the JSON body like the
// original route.  The price map is replaced only when present.
func (h *ConcertHandler) Update(c echo.Context) error {
	var body struct {
		ID uint64 `json:"id"`
		model.Concert
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "concert id is required"})
	}
	if body.Status != "" && !model.ValidConcertStatus(body.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	concert, err := h.Concerts.Update(ctx, body.ID, &body.Concert)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update concert failed"})
	}
	return c.JSON(http.StatusOK, concert)
}

// Delete handles DELETE /api/concerts (admin), id in the JSON body.  A
// concert that still has listings returns 409.
func (h *ConcertHandler) Delete(c echo.Context) error {
	var body struct {
		ID uint64 `json:"id"`
	}
	if err := c.Bind(&body); err != nil || body.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "concert id is required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Concerts.Delete(ctx, body.ID); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "concert still has listings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete concert failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
