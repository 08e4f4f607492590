// Package storage defines the persistence collaborators the services are
// constructed with. Implementations live in internal/repos.
package storage

import (
	"errors"
	"time"

	"techmart/internal/domain"
)

// ErrNotFound is the repo-boundary sentinel. Services translate it into
// domain.NotFoundError before it reaches callers.
var ErrNotFound = errors.New("not found")

type CatalogStorage interface {
	LoadProducts() ([]domain.Product, error)
	SaveProducts([]domain.Product) error
}

type CategoryStorage interface {
	LoadCategories() ([]domain.Category, error)
	SaveCategories([]domain.Category) error
}

// CartStorage persists the full line set of one shopping session.
type CartStorage interface {
	Load() ([]domain.CartLine, error)
	Save([]domain.CartLine) error
}

// OrderFilter narrows OrderSink.List. Zero time bounds are unbounded;
// an empty status matches every status.
type OrderFilter struct {
	Status domain.OrderStatus
	From   time.Time
	To     time.Time
}

// OrderSink owns orders once checkout commits.
type OrderSink interface {
	Append(domain.Order) error
	List(OrderFilter) ([]domain.Order, error)
	Get(id string) (domain.Order, error)
	UpdateStatus(id string, status domain.OrderStatus) error
}

type UserStore interface {
	ByEmail(email string) (*domain.User, error)
	BindSession(sid, userID string) error
	UnbindSession(sid string) error
	SessionUser(sid string) (*domain.User, error)
}
