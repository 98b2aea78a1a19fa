package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tickettrade/resale-market/internal/model"
)

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "id,reference,user_id,ticket_id,quantity,total_price,status,created_at,updated_at"

func scanOrder(scan func(dest ...any) error) (model.Order, error) {
	var o model.Order
	err := scan(&o.ID, &o.Reference, &o.UserID, &o.TicketID, &o.Quantity,
		&o.TotalPrice, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Purchase atomically buys a listing: the ticket row is locked, verified
// to still be available with enough seats, flipped to sold, and the order
// row inserted, all in one transaction.  A second buyer racing on the
// same listing gets ErrTicketUnavailable.
func (r *OrderRepo) Purchase(ctx context.Context, userID, ticketID uint64, quantity int) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var sellerID uint64
	var price int64
	var available int
	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT seller_id, price, quantity, status FROM tickets WHERE id=? FOR UPDATE",
		ticketID).Scan(&sellerID, &price, &available, &status)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if sellerID == userID {
		return model.Order{}, ErrForbidden
	}
	if status != model.TicketStatusAvailable || quantity > available {
		return model.Order{}, ErrTicketUnavailable
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE tickets SET status=? WHERE id=?",
		model.TicketStatusSold, ticketID); err != nil {
		return model.Order{}, err
	}

	reference := uuid.NewString()
	total := price * int64(quantity)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (reference, user_id, ticket_id, quantity, total_price, status)
		 VALUES (?,?,?,?,?,?)`,
		reference, userID, ticketID, quantity, total, model.OrderStatusPending)
	if err != nil {
		return model.Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches an order by id.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? LIMIT 1", id)
	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	return o, err
}

// List returns orders, newest first.  When userID is nonzero only that
// buyer's orders are returned.
func (r *OrderRepo) List(ctx context.Context, userID uint64) ([]model.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders"
	args := []any{}
	if userID != 0 {
		query += " WHERE user_id=?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order to the given status.  Cancelling a pending
// order puts the ticket back on sale inside the same transaction.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? FOR UPDATE", id)
	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE id=?", status, id); err != nil {
		return model.Order{}, err
	}
	if status == model.OrderStatusCancelled && o.Status == model.OrderStatusPending {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tickets SET status=? WHERE id=? AND status=?",
			model.TicketStatusAvailable, o.TicketID, model.TicketStatusSold); err != nil {
			return model.Order{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return r.GetByID(ctx, id)
}

// Delete removes an order by id.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM orders WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
