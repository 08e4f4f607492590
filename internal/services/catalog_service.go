package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"techmart/internal/domain"
	"techmart/internal/storage"
)

// Sort keys accepted by Filter.SortBy.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortNewest    = "newest"
)

// Filter composes with logical AND; every field is optional.
type Filter struct {
	CategoryID string
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	InStock    bool
	Featured   bool
	SortBy     string
}

// CatalogService owns the product and category lists. It loads both from
// the injected storage at construction and writes the full set back after
// every successful mutation.
type CatalogService struct {
	mu         sync.RWMutex
	products   []domain.Product
	categories []domain.Category
	prodStore  storage.CatalogStorage
	catStore   storage.CategoryStorage
}

func NewCatalogService(prods storage.CatalogStorage, cats storage.CategoryStorage) (*CatalogService, error) {
	products, err := prods.LoadProducts()
	if err != nil {
		return nil, err
	}
	categories, err := cats.LoadCategories()
	if err != nil {
		return nil, err
	}
	return &CatalogService{
		products:   products,
		categories: categories,
		prodStore:  prods,
		catStore:   cats,
	}, nil
}

// Query returns a fresh slice; callers may mutate the result freely.
// Filters apply first, then SortBy; without SortBy the catalog insertion
// order is preserved.
func (s *CatalogService) Query(f Filter) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.InStock && p.Stock <= 0 {
			continue
		}
		if f.Featured && !p.Featured {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sortProducts(out, f.SortBy)
	return out
}

func sortProducts(ps []domain.Product, key string) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price < ps[j].Price })
	case SortPriceDesc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price > ps[j].Price })
	case SortNameAsc:
		c := collate.New(language.Und)
		sort.SliceStable(ps, func(i, j int) bool { return c.CompareString(ps[i].Name, ps[j].Name) < 0 })
	case SortNameDesc:
		c := collate.New(language.Und)
		sort.SliceStable(ps, func(i, j int) bool { return c.CompareString(ps[i].Name, ps[j].Name) > 0 })
	case SortNewest:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
	}
}

func (s *CatalogService) GetByID(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return cloneProduct(p), nil
		}
	}
	return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
}

func (s *CatalogService) GetBySlug(slug string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Slug == slug {
			return cloneProduct(p), nil
		}
	}
	return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: slug}
}

// Featured returns the first limit featured products in catalog order.
func (s *CatalogService) Featured(limit int) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range s.products {
		if len(out) >= limit {
			break
		}
		if p.Featured {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

// Add validates, assigns id/slug/timestamps, appends and persists.
func (s *CatalogService) Add(p domain.Product) (domain.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Product{}, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if p.CategoryID == "" {
		return domain.Product{}, &domain.ValidationError{Field: "categoryId", Reason: "required"}
	}
	if p.Price < 0 {
		return domain.Product{}, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Stock < 0 {
		return domain.Product{}, &domain.ValidationError{Field: "stock", Reason: "must not be negative"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = time.Time{}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	p.Slug = s.uniqueSlugLocked(p.Slug)

	s.products = append(s.products, cloneProduct(p))
	if err := s.prodStore.SaveProducts(s.products); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// ProductUpdate carries a partial edit; nil fields are left untouched.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Slug          *string
	CategoryID    *string
	Price         *float64
	OriginalPrice *float64
	Stock         *int
	Featured      *bool
	Specs         []domain.Spec
}

func (s *CatalogService) Update(id string, u ProductUpdate) (domain.Product, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return domain.Product{}, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if u.Price != nil && *u.Price < 0 {
		return domain.Product{}, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if u.Stock != nil && *u.Stock < 0 {
		return domain.Product{}, &domain.ValidationError{Field: "stock", Reason: "must not be negative"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return domain.Product{}, &domain.NotFoundError{Kind: "product", ID: id}
	}
	p := &s.products[i]
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Slug != nil {
		p.Slug = *u.Slug
	}
	if u.CategoryID != nil {
		p.CategoryID = *u.CategoryID
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.OriginalPrice != nil {
		p.OriginalPrice = *u.OriginalPrice
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
	if u.Specs != nil {
		p.Specs = append([]domain.Spec(nil), u.Specs...)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.prodStore.SaveProducts(s.products); err != nil {
		return domain.Product{}, err
	}
	return cloneProduct(*p), nil
}

// Delete is an idempotent no-op on a missing id: it reports false, not an
// error.
func (s *CatalogService) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	if err := s.prodStore.SaveProducts(s.products); err != nil {
		return false, err
	}
	return true, nil
}

// AdjustStock applies a delta, rejecting any change that would take stock
// below zero. Checkout uses it to decrement committed quantities.
func (s *CatalogService) AdjustStock(id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return &domain.NotFoundError{Kind: "product", ID: id}
	}
	p := &s.products[i]
	if p.Stock+delta < 0 {
		return &domain.InsufficientStockError{
			ProductID: id,
			Requested: -delta,
			Available: p.Stock,
		}
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()
	return s.prodStore.SaveProducts(s.products)
}

// ---------- categories ----------

func (s *CatalogService) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

func (s *CatalogService) GetCategory(id string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, &domain.NotFoundError{Kind: "category", ID: id}
}

func (s *CatalogService) GetCategoryBySlug(slug string) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return domain.Category{}, &domain.NotFoundError{Kind: "category", ID: slug}
}

func (s *CatalogService) AddCategory(c domain.Category) (domain.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Category{}, &domain.ValidationError{Field: "name", Reason: "required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	s.categories = append(s.categories, c)
	if err := s.catStore.SaveCategories(s.categories); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(id string, name, description string) (domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Category{}, &domain.ValidationError{Field: "name", Reason: "required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		s.categories[i].Name = name
		s.categories[i].Description = description
		s.categories[i].UpdatedAt = time.Now().UTC()
		if err := s.catStore.SaveCategories(s.categories); err != nil {
			return domain.Category{}, err
		}
		return s.categories[i], nil
	}
	return domain.Category{}, &domain.NotFoundError{Kind: "category", ID: id}
}

func (s *CatalogService) DeleteCategory(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		s.categories = append(s.categories[:i], s.categories[i+1:]...)
		if err := s.catStore.SaveCategories(s.categories); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// ---------- helpers ----------

func (s *CatalogService) indexLocked(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CatalogService) uniqueSlugLocked(slug string) string {
	taken := func(sl string) bool {
		for _, p := range s.products {
			if p.Slug == sl {
				return true
			}
		}
		return false
	}
	if !taken(slug) {
		return slug
	}
	for n := 2; ; n++ {
		candidate := slug + "-" + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses anything non-alphanumeric into
// single dashes.
func Slugify(name string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

func cloneProduct(p domain.Product) domain.Product {
	c := p
	if p.Specs != nil {
		c.Specs = append([]domain.Spec(nil), p.Specs...)
	}
	return c
}
