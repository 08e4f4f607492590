package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"techmart/internal/domain"
	"techmart/internal/events"
	"techmart/internal/storage"
)

var ErrEmptyCart = errors.New("cart is empty")

type Contact struct {
	Name  string
	Email string
}

// OrderService runs checkout: materialize the cart, re-check stock,
// charge, snapshot the lines into an Order, hand it to the sink, decrement
// stock and clear the cart. Any failure before the sink append leaves
// cart, catalog and sink untouched.
type OrderService struct {
	Catalog *CatalogService
	Orders  storage.OrderSink
	Payment PaymentProvider
	Events  *events.Publisher // optional
}

func NewOrderService(catalog *CatalogService, orders storage.OrderSink, payment PaymentProvider, ev *events.Publisher) *OrderService {
	return &OrderService{Catalog: catalog, Orders: orders, Payment: payment, Events: ev}
}

func (s *OrderService) Place(cart *CartService, contact Contact) (domain.Order, error) {
	rows := cart.Materialize()
	if len(rows) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	// Stock may have moved since the lines were added.
	for _, r := range rows {
		if r.Line.Quantity > r.Product.Stock {
			return domain.Order{}, &domain.InsufficientStockError{
				ProductID: r.Product.ID,
				Requested: r.Line.Quantity,
				Available: r.Product.Stock,
			}
		}
	}

	total := 0.0
	for _, r := range rows {
		total += r.Subtotal
	}

	if err := s.Payment.Process(total); err != nil {
		return domain.Order{}, err
	}

	// Snapshot item fields now; later catalog edits must not reach into
	// order history.
	items := make([]domain.OrderItem, 0, len(rows))
	for _, r := range rows {
		category := ""
		if c, err := s.Catalog.GetCategory(r.Product.CategoryID); err == nil {
			category = c.Name
		}
		items = append(items, domain.OrderItem{
			ProductID: r.Product.ID,
			Name:      r.Product.Name,
			Category:  category,
			Price:     r.Product.Price,
			Quantity:  r.Line.Quantity,
		})
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		Date:          time.Now().UTC(),
		Status:        domain.StatusPending,
		Total:         total,
		Items:         items,
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
	}

	if err := s.Orders.Append(order); err != nil {
		return domain.Order{}, err
	}
	for _, it := range items {
		if err := s.Catalog.AdjustStock(it.ProductID, -it.Quantity); err != nil {
			return domain.Order{}, err
		}
	}
	if err := cart.Clear(); err != nil {
		return domain.Order{}, err
	}

	if s.Events != nil {
		s.Events.OrderPlaced(order)
	}
	return order, nil
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	o, err := s.Orders.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Order{}, &domain.NotFoundError{Kind: "order", ID: id}
	}
	return o, err
}

func (s *OrderService) List(f storage.OrderFilter) ([]domain.Order, error) {
	return s.Orders.List(f)
}

func (s *OrderService) UpdateStatus(id string, status domain.OrderStatus) error {
	if !domain.ValidStatus(status) {
		return &domain.ValidationError{Field: "status", Reason: "unknown status"}
	}
	err := s.Orders.UpdateStatus(id, status)
	if errors.Is(err, storage.ErrNotFound) {
		return &domain.NotFoundError{Kind: "order", ID: id}
	}
	return err
}
