package handler

import (
	"math/rand"
	"net/http"
	"sort"
	"sync"

	"github.com/labstack/echo/v4"
)

// PopularEntry is one row of the popular-tickets board shown on the home
// page: an artist's run of dates with a traffic counter standing in for
// a real demand signal.
type PopularEntry struct {
	ID      uint64 `json:"id"`
	Rank    int    `json:"rank"`
	Artist  string `json:"artist"`
	Date    string `json:"date"`
	Venue   string `json:"venue"`
	Traffic int    `json:"traffic"`
}

// PopularHandler serves GET /api/popular-tickets.  The board lives in
// memory only; every GET bumps each entry's traffic by a random amount,
// re-sorts descending and reassigns ranks 1..N.  The mutex makes the
// shared slice safe under concurrent requests.
type PopularHandler struct {
	mu      sync.Mutex
	entries []PopularEntry
	bump    func() int
}

// NewPopularHandler seeds the board.  A nil bump defaults to a random
// increment in [0,100).
func NewPopularHandler(entries []PopularEntry, bump func() int) *PopularHandler {
	if bump == nil {
		bump = func() int { return rand.Intn(100) }
	}
	return &PopularHandler{entries: entries, bump: bump}
}

// DefaultPopularEntries is the fixture board the home page starts with.
func DefaultPopularEntries() []PopularEntry {
	return []PopularEntry{
		{ID: 1, Rank: 1, Artist: "세븐틴", Date: "26.03.20 ~ 26.03.21", Venue: "잠실종합운동장 주경기장", Traffic: 1000},
		{ID: 2, Rank: 2, Artist: "데이식스 (DAY6)", Date: "26.02.01 ~ 26.03.30", Venue: "전국투어", Traffic: 800},
		{ID: 3, Rank: 3, Artist: "아이브", Date: "26.04.05 ~ 26.04.06", Venue: "KSPO DOME", Traffic: 750},
		{ID: 4, Rank: 4, Artist: "웃는 남자", Date: "26.01.09 ~ 26.03.09", Venue: "예술의전당 오페라극장", Traffic: 500},
	}
}

// List handles GET /api/popular-tickets.
func (h *PopularHandler) List(c echo.Context) error {
	h.mu.Lock()
	for i := range h.entries {
		h.entries[i].Traffic += h.bump()
	}
	sort.SliceStable(h.entries, func(i, j int) bool {
		return h.entries[i].Traffic > h.entries[j].Traffic
	})
	for i := range h.entries {
		h.entries[i].Rank = i + 1
	}
	out := make([]PopularEntry, len(h.entries))
	copy(out, h.entries)
	h.mu.Unlock()

	return c.JSON(http.StatusOK, out)
}
