package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/tickettrade/resale-market/internal/model"
)

type ConcertRepo struct{ DB *sql.DB }

func NewConcertRepo(db *sql.DB) *ConcertRepo { return &ConcertRepo{DB: db} }

// ConcertFilter holds the optional query-string filters of GET /api/concerts.
// Query is matched case-insensitively as a substring of title, artist and
// venue.
type ConcertFilter struct {
	Category string
	Status   string
	Query    string
}

const concertColumns = "id,title,artist,date,time,venue,address,poster_image,description,category,price,seat_map,status,created_at,updated_at"

// marshalPrice serializes the grade->price map into the TEXT column form.
// A nil map is stored as an empty JSON object so reads never fail.
func marshalPrice(p model.PriceMap) (string, error) {
	if p == nil {
		p = model.PriceMap{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanConcert(scan func(dest ...any) error) (model.Concert, error) {
	var c model.Concert
	var priceJSON string
	err := scan(&c.ID, &c.Title, &c.Artist, &c.Date, &c.Time, &c.Venue, &c.Address,
		&c.PosterImage, &c.Description, &c.Category, &priceJSON, &c.SeatMap, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal([]byte(priceJSON), &c.Price); err != nil {
		// A corrupt price column should not break browsing; expose an
		// empty map and keep the row readable.
		c.Price = model.PriceMap{}
	}
	return c, nil
}

// Create inserts a concert and returns it with generated fields populated.
func (r *ConcertRepo) Create(ctx context.Context, c *model.Concert) (model.Concert, error) {
	priceJSON, err := marshalPrice(c.Price)
	if err != nil {
		return model.Concert{}, err
	}
	if c.Status == "" {
		c.Status = model.ConcertStatusUpcoming
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO concerts (title, artist, date, time, venue, address, poster_image, description, category, price, seat_map, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.Title, c.Artist, c.Date, c.Time, c.Venue, c.Address, c.PosterImage,
		c.Description, c.Category, priceJSON, c.SeatMap, c.Status)
	if err != nil {
		return model.Concert{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Concert{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a concert with its price map parsed.
func (r *ConcertRepo) GetByID(ctx context.Context, id uint64) (model.Concert, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+concertColumns+" FROM concerts WHERE id=? LIMIT 1", id)
	c, err := scanConcert(row.Scan)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// List returns concerts matching the filter, ordered by date ascending.
func (r *ConcertRepo) List(ctx context.Context, f ConcertFilter) ([]model.Concert, error) {
	where := []string{}
	args := []any{}

	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Query != "" {
		q := "%" + strings.ToLower(f.Query) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(artist) LIKE ? OR LOWER(venue) LIKE ?)")
		args = append(args, q, q, q)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+concertColumns+" FROM concerts WHERE "+cond+" ORDER BY date ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Concert{}
	for rows.Next() {
		c, err := scanConcert(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a concert.  The price column is
// replaced only when a new map is provided; a nil map keeps the stored one.
func (r *ConcertRepo) Update(ctx context.Context, id uint64, c *model.Concert) (model.Concert, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Concert{}, err
	}
	priceJSON, err := marshalPrice(existing.Price)
	if err != nil {
		return model.Concert{}, err
	}
	if c.Price != nil {
		priceJSON, err = marshalPrice(c.Price)
		if err != nil {
			return model.Concert{}, err
		}
	}
	apply := func(v, fallback string) string {
		if v != "" {
			return v
		}
		return fallback
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE concerts SET title=?, artist=?, date=?, time=?, venue=?, address=?,
		 poster_image=?, description=?, category=?, price=?, seat_map=?, status=? WHERE id=?`,
		apply(c.Title, existing.Title), apply(c.Artist, existing.Artist),
		apply(c.Date, existing.Date), apply(c.Time, existing.Time),
		apply(c.Venue, existing.Venue), apply(c.Address, existing.Address),
		apply(c.PosterImage, existing.PosterImage), apply(c.Description, existing.Description),
		apply(c.Category, existing.Category), priceJSON,
		apply(c.SeatMap, existing.SeatMap), apply(c.Status, existing.Status), id)
	if err != nil {
		return model.Concert{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a concert.  A concert that still has resale listings
// cannot be deleted and returns ErrConflict.
func (r *ConcertRepo) Delete(ctx context.Context, id uint64) error {
	var n int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tickets WHERE concert_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM concerts WHERE id=?", id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
