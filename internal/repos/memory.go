package repos

import (
	"sync"

	"techmart/internal/domain"
	"techmart/internal/storage"
)

// Map-backed storage implementations. Used by tests and by embedders that
// don't want a database; the services behave identically against them.

type MemoryCatalog struct {
	mu         sync.Mutex
	products   []domain.Product
	categories []domain.Category
}

func NewMemoryCatalog() *MemoryCatalog { return &MemoryCatalog{} }

func (m *MemoryCatalog) LoadProducts() ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Product(nil), m.products...), nil
}

func (m *MemoryCatalog) SaveProducts(ps []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append([]domain.Product(nil), ps...)
	return nil
}

func (m *MemoryCatalog) LoadCategories() ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Category(nil), m.categories...), nil
}

func (m *MemoryCatalog) SaveCategories(cs []domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append([]domain.Category(nil), cs...)
	return nil
}

type MemoryCart struct {
	mu    sync.Mutex
	lines []domain.CartLine
	Saves int // mutation count, handy in tests
}

func NewMemoryCart() *MemoryCart { return &MemoryCart{} }

func (m *MemoryCart) Load() ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), m.lines...), nil
}

func (m *MemoryCart) Save(lines []domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append([]domain.CartLine(nil), lines...)
	m.Saves++
	return nil
}

type MemoryOrders struct {
	mu     sync.Mutex
	orders []domain.Order
}

func NewMemoryOrders() *MemoryOrders { return &MemoryOrders{} }

func (m *MemoryOrders) Append(o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, cloneOrder(o))
	return nil
}

func (m *MemoryOrders) List(f storage.OrderFilter) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && o.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && o.Date.After(f.To) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (m *MemoryOrders) Get(id string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return cloneOrder(o), nil
		}
	}
	return domain.Order{}, storage.ErrNotFound
}

func (m *MemoryOrders) UpdateStatus(id string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			return nil
		}
	}
	return storage.ErrNotFound
}

func cloneOrder(o domain.Order) domain.Order {
	c := o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return c
}

type MemoryUsers struct {
	mu       sync.Mutex
	users    map[string]domain.User // by id
	sessions map[string]string      // sid -> user id
}

func NewMemoryUsers(users ...domain.User) *MemoryUsers {
	m := &MemoryUsers{users: map[string]domain.User{}, sessions: map[string]string{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MemoryUsers) ByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *MemoryUsers) BindSession(sid, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = userID
	return nil
}

func (m *MemoryUsers) UnbindSession(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

func (m *MemoryUsers) SessionUser(sid string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, ok := m.sessions[sid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u, ok := m.users[uid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := u
	return &c, nil
}
