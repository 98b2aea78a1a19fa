package model

import "time"

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order represents a purchase of one resale listing as stored in the
// `orders` table.  An order is created inside the same transaction that
// flips the ticket to sold, so one listing can never be bought twice.
//
// Fields:
//  ID         – primary key identifier.
//  Reference  – opaque UUID shown to the buyer on the confirmation page.
//  UserID     – buying user.
//  TicketID   – the purchased listing.
//  Quantity   – number of seats bought (the whole listing).
//  TotalPrice – Quantity × asking price at purchase time, in won.
//  Status     – pending | completed | cancelled.
type Order struct {
	ID         uint64    `json:"id"`         // orders.id
	Reference  string    `json:"reference"`  // orders.reference
	UserID     uint64    `json:"userId"`     // orders.user_id
	TicketID   uint64    `json:"ticketId"`   // orders.ticket_id
	Quantity   int       `json:"quantity"`   // orders.quantity
	TotalPrice int64     `json:"totalPrice"` // orders.total_price
	Status     string    `json:"status"`     // orders.status
	CreatedAt  time.Time `json:"createdAt"`  // orders.created_at
	UpdatedAt  time.Time `json:"updatedAt"`  // orders.updated_at
}

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
