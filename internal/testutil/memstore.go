// Package testutil provides in-memory repositories and fakes for handler,
// service and router tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"bistro/internal/model"
	"bistro/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is a goroutine-safe in-memory stand-in for the five collections.
// The Fail* fields inject errors into the matching operation.
type MemStore struct {
	mu       sync.Mutex
	users    []model.User
	menu     []model.MenuItem
	reviews  []model.Review
	carts    []model.CartItem
	payments []model.Payment

	FailUserLookup     error
	FailPaymentInsert  error
	FailCartDeleteMany error
}

func NewMemStore() *MemStore { return &MemStore{} }

// ── Seeding ───────────────────────────────────────────────────────────────────

func (s *MemStore) SeedUser(email, role string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: primitive.NewObjectID(), Email: email, Name: "Test User", Role: role}
	s.users = append(s.users, u)
	return u
}

func (s *MemStore) SeedMenuItem(name, category string, price float64) model.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := model.MenuItem{ID: primitive.NewObjectID(), Name: name, Category: category, Price: price}
	s.menu = append(s.menu, it)
	return it
}

func (s *MemStore) SeedReview(name string, rating float64) model.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := model.Review{ID: primitive.NewObjectID(), Name: name, Details: "great", Rating: rating}
	s.reviews = append(s.reviews, r)
	return r
}

func (s *MemStore) SeedCartItem(email, menuID string, price float64) model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.CartItem{ID: primitive.NewObjectID(), Email: email, MenuID: menuID, Price: price}
	s.carts = append(s.carts, c)
	return c
}

func (s *MemStore) SeedPayment(p model.Payment) model.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.payments = append(s.payments, p)
	return p
}

// ── Inspection ────────────────────────────────────────────────────────────────

func (s *MemStore) UserByEmail(email string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *MemStore) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *MemStore) MenuCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.menu)
}

func (s *MemStore) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func (s *MemStore) PaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

// ── Repository adapters ───────────────────────────────────────────────────────

func (s *MemStore) Users() repository.UserRepository       { return memUsers{s} }
func (s *MemStore) Menu() repository.MenuRepository        { return memMenu{s} }
func (s *MemStore) Reviews() repository.ReviewRepository   { return memReviews{s} }
func (s *MemStore) Carts() repository.CartRepository       { return memCarts{s} }
func (s *MemStore) Payments() repository.PaymentRepository { return memPayments{s} }

type memUsers struct{ s *MemStore }

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailUserLookup != nil {
		return nil, r.s.FailUserLookup
	}
	for i := range r.s.users {
		if r.s.users[i].Email == email {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) List(context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.User{}, r.s.users...), nil
}

func (r memUsers) Insert(_ context.Context, u *model.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	r.s.users = append(r.s.users, *u)
	return u.ID, nil
}

func (r memUsers) SetRole(_ context.Context, id primitive.ObjectID, role string) (repository.UpdateCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			c := repository.UpdateCounts{Matched: 1}
			if r.s.users[i].Role != role {
				r.s.users[i].Role = role
				c.Modified = 1
			}
			return c, nil
		}
	}
	return repository.UpdateCounts{}, nil
}

func (r memUsers) UpsertAdmin(_ context.Context, email, name string) (repository.UpdateCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Email == email {
			c := repository.UpdateCounts{Matched: 1}
			if r.s.users[i].Role != model.RoleAdmin {
				r.s.users[i].Role = model.RoleAdmin
				c.Modified = 1
			}
			return c, nil
		}
	}
	id := primitive.NewObjectID()
	r.s.users = append(r.s.users, model.User{ID: id, Email: email, Name: name, Role: model.RoleAdmin})
	return repository.UpdateCounts{Upserted: 1, UpsertedID: &id}, nil
}

func (r memUsers) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			r.s.users = append(r.s.users[:i], r.s.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r memUsers) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

type memMenu struct{ s *MemStore }

func (r memMenu) List(context.Context) ([]model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.MenuItem{}, r.s.menu...), nil
}

func (r memMenu) FindByID(_ context.Context, id primitive.ObjectID) (*model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.menu {
		if r.s.menu[i].ID == id {
			it := r.s.menu[i]
			return &it, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memMenu) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.MenuItem{}
	for _, it := range r.s.menu {
		if containsID(ids, it.ID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r memMenu) Insert(_ context.Context, it *model.MenuItem) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it.ID = primitive.NewObjectID()
	r.s.menu = append(r.s.menu, *it)
	return it.ID, nil
}

func (r memMenu) Update(_ context.Context, id primitive.ObjectID, it *model.MenuItem) (repository.UpdateCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.menu {
		if r.s.menu[i].ID == id {
			updated := *it
			updated.ID = id
			c := repository.UpdateCounts{Matched: 1}
			if r.s.menu[i] != updated {
				c.Modified = 1
			}
			r.s.menu[i] = updated
			return c, nil
		}
	}
	return repository.UpdateCounts{}, nil
}

func (r memMenu) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.menu {
		if r.s.menu[i].ID == id {
			r.s.menu = append(r.s.menu[:i], r.s.menu[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r memMenu) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.menu)), nil
}

type memReviews struct{ s *MemStore }

func (r memReviews) List(context.Context) ([]model.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.Review{}, r.s.reviews...), nil
}

type memCarts struct{ s *MemStore }

func (r memCarts) ListByEmail(_ context.Context, email string) ([]model.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.CartItem{}
	for _, c := range r.s.carts {
		if c.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCarts) FindByID(_ context.Context, id primitive.ObjectID) (*model.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.carts {
		if r.s.carts[i].ID == id {
			c := r.s.carts[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCarts) Insert(_ context.Context, c *model.CartItem) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = primitive.NewObjectID()
	r.s.carts = append(r.s.carts, *c)
	return c.ID, nil
}

func (r memCarts) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.remove([]primitive.ObjectID{id}), nil
}

func (r memCarts) DeleteMany(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCartDeleteMany != nil {
		return 0, r.s.FailCartDeleteMany
	}
	return r.remove(ids), nil
}

// must be called under lock
func (r memCarts) remove(ids []primitive.ObjectID) int64 {
	kept := r.s.carts[:0]
	var n int64
	for _, c := range r.s.carts {
		if containsID(ids, c.ID) {
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.s.carts = kept
	return n
}

type memPayments struct{ s *MemStore }

func (r memPayments) ListByEmail(_ context.Context, email string) ([]model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Payment{}
	for _, p := range r.s.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPayments) FindByID(_ context.Context, id primitive.ObjectID) (*model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.payments {
		if r.s.payments[i].ID == id {
			p := r.s.payments[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memPayments) Insert(_ context.Context, p *model.Payment) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailPaymentInsert != nil {
		return primitive.NilObjectID, r.s.FailPaymentInsert
	}
	p.ID = primitive.NewObjectID()
	r.s.payments = append(r.s.payments, *p)
	return p.ID, nil
}

func (r memPayments) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.payments)), nil
}

func (r memPayments) TotalRevenue(context.Context) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, p := range r.s.payments {
		total += p.Price
	}
	return total, nil
}

// OrderStats mirrors the unwind/lookup/group pipeline: unresolved ids are dropped.
func (r memPayments) OrderStats(context.Context) ([]model.OrderStat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byID := make(map[primitive.ObjectID]model.MenuItem, len(r.s.menu))
	for _, it := range r.s.menu {
		byID[it.ID] = it
	}
	acc := map[string]*model.OrderStat{}
	for _, p := range r.s.payments {
		for _, id := range p.MenuItemIDs {
			it, ok := byID[id]
			if !ok {
				continue
			}
			row, ok := acc[it.Category]
			if !ok {
				row = &model.OrderStat{Category: it.Category}
				acc[it.Category] = row
			}
			row.Quantity++
			row.Revenue += it.Price
		}
	}
	out := make([]model.OrderStat, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
