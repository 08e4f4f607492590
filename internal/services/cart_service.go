package services

import (
	"sync"
	"time"

	"techmart/internal/domain"
	"techmart/internal/storage"
)

// CartRow is one materialized cart entry: the line joined against the live
// catalog, with its subtotal.
type CartRow struct {
	Line     domain.CartLine `json:"line"`
	Product  domain.Product  `json:"product"`
	Subtotal float64         `json:"subtotal"`
}

// CartService holds the line set of a single shopping session. Lines are
// loaded from storage at construction and the full set is written back as
// the last step of every successful mutation; failed validations never
// persist. Quantities are validated against live catalog stock on every
// mutation, not just at checkout.
type CartService struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	store   storage.CartStorage
	catalog *CatalogService
}

func NewCartService(store storage.CartStorage, catalog *CatalogService) (*CartService, error) {
	lines, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &CartService{lines: lines, store: store, catalog: catalog}, nil
}

// AddItem adds qty units of a product, merging with an existing line. The
// merged quantity must fit in current stock or the cart is left untouched.
func (s *CartService) AddItem(productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	p, err := s.catalog.GetByID(productID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndexLocked(productID)
	requested := qty
	if i >= 0 {
		requested += s.lines[i].Quantity
	}
	if requested > p.Stock {
		return &domain.InsufficientStockError{
			ProductID: productID,
			Requested: requested,
			Available: p.Stock,
		}
	}

	if i >= 0 {
		s.lines[i].Quantity = requested
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID: productID,
			Quantity:  qty,
			AddedAt:   time.Now().UTC(),
		})
	}
	s.compactLocked()
	return s.store.Save(s.lines)
}

// RemoveItem drops the line unconditionally; absent lines are a no-op.
func (s *CartService) RemoveItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndexLocked(productID)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.compactLocked()
	return s.store.Save(s.lines)
}

// UpdateQuantity sets a line to an absolute quantity. Zero or less removes
// the line. Quantities above stock are rejected without clamping; the
// prior quantity stays intact so the caller can decide.
func (s *CartService) UpdateQuantity(productID string, qty int) error {
	if qty <= 0 {
		return s.RemoveItem(productID)
	}
	p, err := s.catalog.GetByID(productID)
	if err != nil {
		return err
	}
	if qty > p.Stock {
		return &domain.InsufficientStockError{
			ProductID: productID,
			Requested: qty,
			Available: p.Stock,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lineIndexLocked(productID)
	if i >= 0 {
		s.lines[i].Quantity = qty
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID: productID,
			Quantity:  qty,
			AddedAt:   time.Now().UTC(),
		})
	}
	s.compactLocked()
	return s.store.Save(s.lines)
}

// Materialize joins every line against the live catalog. Lines whose
// product has since been deleted are dropped from the result; the cart
// stays resilient to concurrent admin deletions.
func (s *CartService) Materialize() []CartRow {
	s.mu.Lock()
	lines := append([]domain.CartLine(nil), s.lines...)
	s.mu.Unlock()

	rows := make([]CartRow, 0, len(lines))
	for _, l := range lines {
		p, err := s.catalog.GetByID(l.ProductID)
		if err != nil {
			continue // orphan line
		}
		rows = append(rows, CartRow{
			Line:     l,
			Product:  p,
			Subtotal: p.Price * float64(l.Quantity),
		})
	}
	return rows
}

// Total sums materialized subtotals; an empty cart totals to exactly 0.
func (s *CartService) Total() float64 {
	total := 0.0
	for _, r := range s.Materialize() {
		total += r.Subtotal
	}
	return total
}

// ItemCount sums quantities across lines, not the number of distinct
// lines. The storefront badge counts items.
func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the raw line set.
func (s *CartService) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.lines...)
}

// Clear empties the cart and persists; used after a committed checkout.
func (s *CartService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return s.store.Save(nil)
}

// compactLocked drops lines whose product has since been deleted from the
// catalog, so they never outlive the next persisted mutation.
func (s *CartService) compactLocked() {
	kept := s.lines[:0]
	for _, l := range s.lines {
		if _, err := s.catalog.GetByID(l.ProductID); err == nil {
			kept = append(kept, l)
		}
	}
	s.lines = kept
}

func (s *CartService) lineIndexLocked(productID string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
