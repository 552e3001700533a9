package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/queue"
	"github.com/iliyamo/shop-backend/internal/repository"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]model.User{}} }

func (m *memUsers) Create(_ context.Context, u model.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return "", repository.ErrEmailExists
		}
	}
	m.nextID++
	u.ID = strconv.Itoa(m.nextID)
	m.byID[u.ID] = u
	return u.ID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) ValidID(id string) bool {
	n, err := strconv.ParseInt(id, 10, 64)
	return err == nil && n > 0
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memProducts struct {
	mu    sync.Mutex
	items []model.Product
	err   error
}

func (m *memProducts) Create(_ context.Context, p model.Product) (model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Product{}, m.err
	}
	p.ID = strconv.Itoa(len(m.items) + 1)
	m.items = append(m.items, p)
	return p, nil
}

func (m *memProducts) List(context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]model.Product(nil), m.items...), nil
}

type memOrders struct {
	mu     sync.Mutex
	nextID int
	items  []model.Order
	err    error
}

func (m *memOrders) Create(_ context.Context, o model.Order) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Order{}, m.err
	}
	m.nextID++
	o.ID = fmt.Sprintf("%06d", m.nextID)
	m.items = append(m.items, o)
	return o, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Order
	for _, o := range m.items {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type fakeUploader struct {
	saved []string
	err   error
}

func (f *fakeUploader) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.saved = append(f.saved, name)
	return fmt.Sprintf("/uploads/%d.png", len(f.saved)), nil
}

type countingPurger struct{ calls int }

func (p *countingPurger) Purge(context.Context) error {
	p.calls++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.OrderCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, ev queue.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

var errBoom = errors.New("boom")
