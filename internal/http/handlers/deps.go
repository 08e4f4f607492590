package handlers

import (
	"techmart/internal/services"
)

// CartFactory builds the cart service for one session. Constructing per
// request re-reads the backing store, which is what gives last-writer-wins
// semantics across instances.
type CartFactory func(sessionID string) (*services.CartService, error)

type Deps struct {
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler
	AuthHandler     *AuthHandler
}

func NewDeps(
	catalog *services.CatalogService,
	carts CartFactory,
	orders *services.OrderService,
	reports *services.ReportService,
	auth *services.AuthService,
) *Deps {
	return &Deps{
		ProductHandler:  &ProductHandler{Catalog: catalog},
		CategoryHandler: &CategoryHandler{Catalog: catalog},
		CartHandler:     &CartHandler{Carts: carts},
		OrderHandler:    &OrderHandler{Carts: carts, Orders: orders},
		AdminHandler:    &AdminHandler{Catalog: catalog, Orders: orders, Reports: reports},
		AuthHandler:     &AuthHandler{Auth: auth},
	}
}
