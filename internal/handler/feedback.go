package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Feedback handles POST /api/feedback.  Submissions are logged; there is
// no feedback inbox beyond the server log.
func Feedback(c echo.Context) error {
	var body struct {
		Feedback string `json:"feedback"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(body.Feedback) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "feedback is required"})
	}
	log.Printf("feedback received: %s", body.Feedback)
	return c.JSON(http.StatusOK, echo.Map{"message": "feedback received"})
}
