package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/tickettrade/resale-market/internal/model"
)

type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// TicketFilter holds the optional query-string filters of GET /api/tickets.
// Query is matched case-insensitively as a substring of title and
// description.
type TicketFilter struct {
	ConcertID uint64
	SellerID  uint64
	Status    string
	Grade     string
	Query     string
}

const ticketColumns = `t.id,t.concert_id,t.seller_id,t.title,t.price,t.original_price,t.quantity,
	t.grade,t.section,t.row,t.seat_number,t.is_consecutive_seats,t.description,t.status,
	t.created_at,t.updated_at`

const ticketConcertJoin = `c.id,c.title,c.artist,c.date,c.time,c.venue,c.address,c.poster_image,
	c.description,c.category,c.price,c.seat_map,c.status,c.created_at,c.updated_at`

// `row` is a reserved word since MySQL 8.0.2 and must be backtick-quoted
// wherever it appears unqualified; the qualified t.row above is legal.
const insertTicketSQL = "INSERT INTO tickets (concert_id, seller_id, title, price, original_price, quantity," +
	" grade, section, `row`, seat_number, is_consecutive_seats, description, status)" +
	" VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)"

const updateTicketSQL = "UPDATE tickets SET title=?, price=?, quantity=?, grade=?, section=?, `row`=?," +
	" seat_number=?, is_consecutive_seats=?, description=?, status=? WHERE id=?"

func scanTicketWithConcert(scan func(dest ...any) error) (model.TicketWithConcert, error) {
	var tw model.TicketWithConcert
	var section, row, seatNumber sql.NullString
	var consecutive bool
	var con model.Concert
	var priceJSON string
	err := scan(
		&tw.ID, &tw.ConcertID, &tw.SellerID, &tw.Title, &tw.Price, &tw.OriginalPrice,
		&tw.Quantity, &tw.Grade, &section, &row, &seatNumber, &consecutive,
		&tw.Description, &tw.Status, &tw.CreatedAt, &tw.UpdatedAt,
		&con.ID, &con.Title, &con.Artist, &con.Date, &con.Time, &con.Venue, &con.Address,
		&con.PosterImage, &con.Description, &con.Category, &priceJSON, &con.SeatMap,
		&con.Status, &con.CreatedAt, &con.UpdatedAt,
	)
	if err != nil {
		return tw, err
	}
	tw.Section = section.String
	tw.Row = row.String
	tw.SeatNumber = seatNumber.String
	tw.IsConsecutiveSeats = &consecutive
	if err := json.Unmarshal([]byte(priceJSON), &con.Price); err != nil {
		con.Price = model.PriceMap{}
	}
	tw.Concert = &con
	return tw, nil
}

// Create inserts a listing and returns it joined with its concert.  The
// original price defaults to the asking price and the status to available.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) (model.TicketWithConcert, error) {
	if t.OriginalPrice == 0 {
		t.OriginalPrice = t.Price
	}
	if t.Status == "" {
		t.Status = model.TicketStatusAvailable
	}
	res, err := r.DB.ExecContext(ctx, insertTicketSQL,
		t.ConcertID, t.SellerID, t.Title, t.Price, t.OriginalPrice, t.Quantity,
		t.Grade, nullable(t.Section), nullable(t.Row), nullable(t.SeatNumber),
		t.IsConsecutiveSeats != nil && *t.IsConsecutiveSeats, t.Description, t.Status)
	if err != nil {
		return model.TicketWithConcert{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TicketWithConcert{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a listing joined with its concert.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.TicketWithConcert, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+ticketColumns+`, `+ticketConcertJoin+`
		 FROM tickets t JOIN concerts c ON c.id = t.concert_id
		 WHERE t.id=? LIMIT 1`, id)
	tw, err := scanTicketWithConcert(row.Scan)
	if err == sql.ErrNoRows {
		return tw, ErrNotFound
	}
	return tw, err
}

// List returns listings matching the filter, newest first, each joined
// with its concert.  A filter matching nothing yields an empty slice.
func (r *TicketRepo) List(ctx context.Context, f TicketFilter) ([]model.TicketWithConcert, error) {
	where := []string{}
	args := []any{}

	if f.ConcertID != 0 {
		where = append(where, "t.concert_id = ?")
		args = append(args, f.ConcertID)
	}
	if f.SellerID != 0 {
		where = append(where, "t.seller_id = ?")
		args = append(args, f.SellerID)
	}
	if f.Status != "" {
		where = append(where, "t.status = ?")
		args = append(args, f.Status)
	}
	if f.Grade != "" {
		where = append(where, "t.grade = ?")
		args = append(args, f.Grade)
	}
	if f.Query != "" {
		q := "%" + strings.ToLower(f.Query) + "%"
		where = append(where, "(LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ?)")
		args = append(args, q, q)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+ticketColumns+`, `+ticketConcertJoin+`
		 FROM tickets t JOIN concerts c ON c.id = t.concert_id
		 WHERE `+cond+` ORDER BY t.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TicketWithConcert{}
	for rows.Next() {
		tw, err := scanTicketWithConcert(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, tw)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a listing after verifying that
// sellerID owns it.  A mismatched seller gets ErrForbidden and the row is
// left untouched.
func (r *TicketRepo) Update(ctx context.Context, id, sellerID uint64, t *model.Ticket) (model.TicketWithConcert, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return model.TicketWithConcert{}, err
	}
	if existing.SellerID != sellerID {
		return model.TicketWithConcert{}, ErrForbidden
	}
	apply := func(v, fallback string) string {
		if v != "" {
			return v
		}
		return fallback
	}
	price := existing.Price
	if t.Price > 0 {
		price = t.Price
	}
	quantity := existing.Quantity
	if t.Quantity > 0 {
		quantity = t.Quantity
	}
	// Absent in the request keeps the stored flag; false clears it.
	consecutive := existing.IsConsecutiveSeats != nil && *existing.IsConsecutiveSeats
	if t.IsConsecutiveSeats != nil {
		consecutive = *t.IsConsecutiveSeats
	}
	_, err = r.DB.ExecContext(ctx, updateTicketSQL,
		apply(t.Title, existing.Title), price, quantity,
		apply(t.Grade, existing.Grade),
		nullable(apply(t.Section, existing.Section)),
		nullable(apply(t.Row, existing.Row)),
		nullable(apply(t.SeatNumber, existing.SeatNumber)),
		consecutive,
		apply(t.Description, existing.Description),
		apply(t.Status, existing.Status), id)
	if err != nil {
		return model.TicketWithConcert{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a listing owned by sellerID.  A mismatched seller gets
// ErrForbidden.
func (r *TicketRepo) Delete(ctx context.Context, id, sellerID uint64) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.SellerID != sellerID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	return err
}

// nullable turns an empty string into a NULL column value.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
