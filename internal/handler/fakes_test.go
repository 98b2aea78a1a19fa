package handler

// In-memory store fakes backing the handler tests.  They mirror the
// repository semantics, sentinel errors included, without a database.

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tickettrade/resale-market/internal/model"
	"github.com/tickettrade/resale-market/internal/repository"
	"github.com/tickettrade/resale-market/internal/utils"
)

type fakeUserStore struct {
	nextID uint64
	users  map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]model.User{}}
}

func (s *fakeUserStore) addUser(email, password, username string, isAdmin bool) model.User {
	hash, _ := utils.HashPassword(password, 4)
	s.nextID++
	u := model.User{
		ID:           s.nextID,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Username:     username,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u
}

func (s *fakeUserStore) Create(_ context.Context, email, password, username string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.nextID++
	s.users[s.nextID] = model.User{ID: s.nextID, Email: email, PasswordHash: hash, Username: username}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	out := []model.User{}
	for id := uint64(1); id <= s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) Update(_ context.Context, id uint64, email, username string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		for _, other := range s.users {
			if other.ID != id && other.Email == email {
				return model.User{}, repository.ErrEmailExists
			}
		}
		u.Email = email
	}
	if username != "" {
		u.Username = username
	}
	s.users[id] = u
	return u, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id uint64, password string, cost int) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeTokenStore struct {
	stored  int
	hashes  map[string]uint64 // live refresh token hash -> user
	revoked map[uint64]int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{hashes: map[string]uint64{}, revoked: map[uint64]int{}}
}

func (s *fakeTokenStore) StoreRefresh(_ context.Context, userID uint64, tokenHash string, _ time.Time) error {
	s.stored++
	s.hashes[tokenHash] = userID
	return nil
}

func (s *fakeTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	uid, ok := s.hashes[tokenHash]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return uid, nil
}

func (s *fakeTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	delete(s.hashes, tokenHash)
	return nil
}

func (s *fakeTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.revoked[userID]++
	for h, uid := range s.hashes {
		if uid == userID {
			delete(s.hashes, h)
		}
	}
	return nil
}

type fakeConcertStore struct {
	nextID   uint64
	concerts map[uint64]model.Concert
}

func newFakeConcertStore() *fakeConcertStore {
	return &fakeConcertStore{concerts: map[uint64]model.Concert{}}
}

func (s *fakeConcertStore) Create(_ context.Context, c *model.Concert) (model.Concert, error) {
	s.nextID++
	out := *c
	out.ID = s.nextID
	if out.Status == "" {
		out.Status = model.ConcertStatusUpcoming
	}
	if out.Price == nil {
		out.Price = model.PriceMap{}
	}
	s.concerts[out.ID] = out
	return out, nil
}

func (s *fakeConcertStore) GetByID(_ context.Context, id uint64) (model.Concert, error) {
	c, ok := s.concerts[id]
	if !ok {
		return model.Concert{}, repository.ErrNotFound
	}
	return c, nil
}

func (s *fakeConcertStore) List(_ context.Context, f repository.ConcertFilter) ([]model.Concert, error) {
	out := []model.Concert{}
	for id := uint64(1); id <= s.nextID; id++ {
		c, ok := s.concerts[id]
		if !ok {
			continue
		}
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			if !strings.Contains(strings.ToLower(c.Title), q) &&
				!strings.Contains(strings.ToLower(c.Artist), q) &&
				!strings.Contains(strings.ToLower(c.Venue), q) {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeConcertStore) Update(_ context.Context, id uint64, c *model.Concert) (model.Concert, error) {
	existing, ok := s.concerts[id]
	if !ok {
		return model.Concert{}, repository.ErrNotFound
	}
	if c.Title != "" {
		existing.Title = c.Title
	}
	if c.Status != "" {
		existing.Status = c.Status
	}
	if c.Price != nil {
		existing.Price = c.Price
	}
	s.concerts[id] = existing
	return existing, nil
}

func (s *fakeConcertStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.concerts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.concerts, id)
	return nil
}

type fakeTicketStore struct {
	nextID   uint64
	tickets  map[uint64]model.Ticket
	concerts *fakeConcertStore
}

func newFakeTicketStore(concerts *fakeConcertStore) *fakeTicketStore {
	return &fakeTicketStore{tickets: map[uint64]model.Ticket{}, concerts: concerts}
}

func (s *fakeTicketStore) withConcert(t model.Ticket) model.TicketWithConcert {
	tw := model.TicketWithConcert{Ticket: t}
	if s.concerts != nil {
		if c, ok := s.concerts.concerts[t.ConcertID]; ok {
			tw.Concert = &c
		}
	}
	return tw
}

func (s *fakeTicketStore) Create(_ context.Context, t *model.Ticket) (model.TicketWithConcert, error) {
	s.nextID++
	out := *t
	out.ID = s.nextID
	if out.OriginalPrice == 0 {
		out.OriginalPrice = out.Price
	}
	if out.Status == "" {
		out.Status = model.TicketStatusAvailable
	}
	if out.IsConsecutiveSeats == nil {
		off := false
		out.IsConsecutiveSeats = &off
	}
	out.CreatedAt = time.Now().UTC()
	s.tickets[out.ID] = out
	return s.withConcert(out), nil
}

func (s *fakeTicketStore) GetByID(_ context.Context, id uint64) (model.TicketWithConcert, error) {
	t, ok := s.tickets[id]
	if !ok {
		return model.TicketWithConcert{}, repository.ErrNotFound
	}
	return s.withConcert(t), nil
}

func (s *fakeTicketStore) List(_ context.Context, f repository.TicketFilter) ([]model.TicketWithConcert, error) {
	out := []model.TicketWithConcert{}
	for id := s.nextID; id >= 1; id-- {
		t, ok := s.tickets[id]
		if !ok {
			continue
		}
		if f.ConcertID != 0 && t.ConcertID != f.ConcertID {
			continue
		}
		if f.SellerID != 0 && t.SellerID != f.SellerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Grade != "" && t.Grade != f.Grade {
			continue
		}
		if f.Query != "" {
			q := strings.ToLower(f.Query)
			if !strings.Contains(strings.ToLower(t.Title), q) &&
				!strings.Contains(strings.ToLower(t.Description), q) {
				continue
			}
		}
		out = append(out, s.withConcert(t))
	}
	return out, nil
}

func (s *fakeTicketStore) Update(_ context.Context, id, sellerID uint64, t *model.Ticket) (model.TicketWithConcert, error) {
	existing, ok := s.tickets[id]
	if !ok {
		return model.TicketWithConcert{}, repository.ErrNotFound
	}
	if existing.SellerID != sellerID {
		return model.TicketWithConcert{}, repository.ErrForbidden
	}
	if t.Title != "" {
		existing.Title = t.Title
	}
	if t.Price > 0 {
		existing.Price = t.Price
	}
	if t.Status != "" {
		existing.Status = t.Status
	}
	if t.IsConsecutiveSeats != nil {
		v := *t.IsConsecutiveSeats
		existing.IsConsecutiveSeats = &v
	}
	s.tickets[id] = existing
	return s.withConcert(existing), nil
}

func (s *fakeTicketStore) Delete(_ context.Context, id, sellerID uint64) error {
	existing, ok := s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	if existing.SellerID != sellerID {
		return repository.ErrForbidden
	}
	delete(s.tickets, id)
	return nil
}

type fakeOrderStore struct {
	nextID  uint64
	orders  map[uint64]model.Order
	tickets *fakeTicketStore
}

func newFakeOrderStore(tickets *fakeTicketStore) *fakeOrderStore {
	return &fakeOrderStore{orders: map[uint64]model.Order{}, tickets: tickets}
}

func (s *fakeOrderStore) Purchase(_ context.Context, userID, ticketID uint64, quantity int) (model.Order, error) {
	t, ok := s.tickets.tickets[ticketID]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	if t.SellerID == userID {
		return model.Order{}, repository.ErrForbidden
	}
	if t.Status != model.TicketStatusAvailable || quantity > t.Quantity {
		return model.Order{}, repository.ErrTicketUnavailable
	}
	t.Status = model.TicketStatusSold
	s.tickets.tickets[ticketID] = t

	s.nextID++
	o := model.Order{
		ID:         s.nextID,
		Reference:  uuid.NewString(),
		UserID:     userID,
		TicketID:   ticketID,
		Quantity:   quantity,
		TotalPrice: t.Price * int64(quantity),
		Status:     model.OrderStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	s.orders[o.ID] = o
	return o, nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id uint64) (model.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (s *fakeOrderStore) List(_ context.Context, userID uint64) ([]model.Order, error) {
	out := []model.Order{}
	for id := s.nextID; id >= 1; id-- {
		o, ok := s.orders[id]
		if !ok {
			continue
		}
		if userID != 0 && o.UserID != userID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id uint64, status string) (model.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	if status == model.OrderStatusCancelled && o.Status == model.OrderStatusPending {
		if t, ok := s.tickets.tickets[o.TicketID]; ok && t.Status == model.TicketStatusSold {
			t.Status = model.TicketStatusAvailable
			s.tickets.tickets[o.TicketID] = t
		}
	}
	o.Status = status
	s.orders[id] = o
	return o, nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}
