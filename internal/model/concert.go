package model

import "time"

// Concert statuses.  A concert moves forward through these states only;
// there is no transition back from completed.
const (
	ConcertStatusUpcoming  = "upcoming"
	ConcertStatusOngoing   = "ongoing"
	ConcertStatusCompleted = "completed"
)

// PriceMap maps a seat grade (vip, r, s, a, b) to its face price in won.
// It is persisted as a JSON text column and parsed at the repository
// boundary so the rest of the application only ever sees the structured
// form.
type PriceMap map[string]int64

// Concert represents a performance event as stored in the `concerts`
// table.  Concerts are managed by admins; resale tickets reference them
// via Ticket.ConcertID.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – event title.
//  Artist      – performing artist or group.
//  Date        – performance date (YYYY-MM-DD, kept as text like the
//                booking sites it mirrors).
//  Time        – performance start time (HH:MM).
//  Venue       – venue name.
//  Address     – street address of the venue.
//  PosterImage – URL of the poster image.
//  Description – free-text description.
//  Category    – genre label used for category browsing.
//  Price       – face price per seat grade.
//  SeatMap     – optional URL of the seat-map image.
//  Status      – upcoming | ongoing | completed.
type Concert struct {
	ID          uint64    `json:"id"`          // concerts.id
	Title       string    `json:"title"`       // concerts.title
	Artist      string    `json:"artist"`      // concerts.artist
	Date        string    `json:"date"`        // concerts.date
	Time        string    `json:"time"`        // concerts.time
	Venue       string    `json:"venue"`       // concerts.venue
	Address     string    `json:"address"`     // concerts.address
	PosterImage string    `json:"posterImage"` // concerts.poster_image
	Description string    `json:"description"` // concerts.description
	Category    string    `json:"category"`    // concerts.category
	Price       PriceMap  `json:"price"`       // concerts.price (JSON text)
	SeatMap     string    `json:"seatMap"`     // concerts.seat_map
	Status      string    `json:"status"`      // concerts.status
	CreatedAt   time.Time `json:"createdAt"`   // concerts.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // concerts.updated_at
}

// ValidConcertStatus reports whether s is one of the known concert states.
func ValidConcertStatus(s string) bool {
	switch s {
	case ConcertStatusUpcoming, ConcertStatusOngoing, ConcertStatusCompleted:
		return true
	}
	return false
}
