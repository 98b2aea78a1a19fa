// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// OrderConfirmedEvent is published when a checkout succeeds.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type OrderConfirmedEvent struct {
	OrderID      uint64 `json:"order_id"`
	Reference    string `json:"reference"`
	BuyerID      uint64 `json:"buyer_id"`
	SellerID     uint64 `json:"seller_id"`
	TicketID     uint64 `json:"ticket_id"`
	TicketTitle  string `json:"ticket_title"`
	ConcertTitle string `json:"concert_title"`
	Grade        string `json:"grade"`
	Quantity     int    `json:"quantity"`
	TotalPrice   int64  `json:"total_price"`
	ConfirmedAt  string `json:"confirmed_at"`
}
