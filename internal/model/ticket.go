package model

import "time"

// Ticket statuses.  A listing starts as available and is flipped to sold
// inside the checkout transaction; cancelling a pending order flips it
// back to available.
const (
	TicketStatusAvailable = "available"
	TicketStatusReserved  = "reserved"
	TicketStatusSold      = "sold"
	TicketStatusCancelled = "cancelled"
)

// Seat grades in descending order of price.
var TicketGrades = []string{"VIP", "R", "S", "A", "B"}

// Ticket represents a resale listing as stored in the `tickets` table.
// A ticket belongs to one concert and one selling user; only the seller
// may update or delete it.
//
// Fields:
//  ID                 – primary key identifier.
//  ConcertID          – concert this listing is for.
//  SellerID           – user who listed the ticket.
//  Title              – listing title shown in search results.
//  Price              – asking price in won.
//  OriginalPrice      – face price in won; defaults to Price when omitted.
//  Quantity           – number of seats sold together.
//  Grade              – seat grade (VIP, R, S, A, B).
//  Section/Row/SeatNumber – optional seat location details.
//  IsConsecutiveSeats – whether the seats are adjacent.  A pointer so an
//                       update can distinguish "clear the flag" from
//                       "field not sent"; reads always return a value.
//  Description        – free-text note from the seller.
//  Status             – available | reserved | sold | cancelled.
type Ticket struct {
	ID                 uint64    `json:"id"`                 // tickets.id
	ConcertID          uint64    `json:"concertId"`          // tickets.concert_id
	SellerID           uint64    `json:"sellerId"`           // tickets.seller_id
	Title              string    `json:"title"`              // tickets.title
	Price              int64     `json:"price"`              // tickets.price
	OriginalPrice      int64     `json:"originalPrice"`      // tickets.original_price
	Quantity           int       `json:"quantity"`           // tickets.quantity
	Grade              string    `json:"grade"`              // tickets.grade
	Section            string    `json:"section,omitempty"`  // tickets.section (nullable)
	Row                string    `json:"row,omitempty"`      // tickets.row (nullable)
	SeatNumber         string    `json:"seatNumber,omitempty"` // tickets.seat_number (nullable)
	IsConsecutiveSeats *bool     `json:"isConsecutiveSeats"` // tickets.is_consecutive_seats
	Description        string    `json:"description"`        // tickets.description
	Status             string    `json:"status"`             // tickets.status
	CreatedAt          time.Time `json:"createdAt"`          // tickets.created_at
	UpdatedAt          time.Time `json:"updatedAt"`          // tickets.updated_at
}

// TicketWithConcert is the listing shape returned by the tickets API:
// every listing carries its concert so the detail and search pages can
// render venue and date without a second request.
type TicketWithConcert struct {
	Ticket
	Concert *Concert `json:"concert,omitempty"`
}

// ValidTicketGrade reports whether g is one of the known seat grades.
func ValidTicketGrade(g string) bool {
	for _, v := range TicketGrades {
		if v == g {
			return true
		}
	}
	return false
}

// ValidTicketStatus reports whether s is one of the known listing states.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketStatusAvailable, TicketStatusReserved, TicketStatusSold, TicketStatusCancelled:
		return true
	}
	return false
}
