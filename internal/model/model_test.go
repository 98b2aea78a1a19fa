package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPasswordHashNeverSerializes(t *testing.T) {
	u := User{ID: 1, Email: "a@b.com", PasswordHash: "$2a$10$secret", Username: "a"}
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "PasswordHash")
}

func TestPriceMapRoundTrip(t *testing.T) {
	// The price map is stored as a JSON text column; the wire shape and
	// the column shape must stay interchangeable.
	in := PriceMap{"VIP": 165000, "R": 145000, "S": 125000}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out PriceMap
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestValidators(t *testing.T) {
	for _, s := range []string{ConcertStatusUpcoming, ConcertStatusOngoing, ConcertStatusCompleted} {
		assert.True(t, ValidConcertStatus(s))
	}
	assert.False(t, ValidConcertStatus("postponed"))
	assert.False(t, ValidConcertStatus(""))

	for _, g := range TicketGrades {
		assert.True(t, ValidTicketGrade(g))
	}
	assert.False(t, ValidTicketGrade("vip"), "grades are case-sensitive")
	assert.False(t, ValidTicketGrade(""))

	for _, s := range []string{TicketStatusAvailable, TicketStatusReserved, TicketStatusSold, TicketStatusCancelled} {
		assert.True(t, ValidTicketStatus(s))
	}
	assert.False(t, ValidTicketStatus("expired"))

	for _, s := range []string{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled} {
		assert.True(t, ValidOrderStatus(s))
	}
	assert.False(t, ValidOrderStatus("refunded"))
}

func TestTicketWithConcertOmitsMissingConcert(t *testing.T) {
	raw, err := json.Marshal(TicketWithConcert{Ticket: Ticket{ID: 1}})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"concert"`)

	raw, err = json.Marshal(TicketWithConcert{Ticket: Ticket{ID: 1}, Concert: &Concert{ID: 2}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"concert"`)
}
