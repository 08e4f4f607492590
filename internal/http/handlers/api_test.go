package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"techmart/internal/domain"
	"techmart/internal/http/handlers"
	"techmart/internal/repos"
	"techmart/internal/services"
	"techmart/internal/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *services.CatalogService, *repos.MemoryOrders) {
	t.Helper()

	catStore := repos.NewMemoryCatalog()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = catStore.SaveProducts([]domain.Product{
		{ID: "p1", CategoryID: "c1", Name: "Alpha Laptop", Slug: "alpha-laptop", Price: 900, Stock: 5, Featured: true, CreatedAt: base},
		{ID: "p2", CategoryID: "c2", Name: "Beta Phone", Slug: "beta-phone", Price: 500, Stock: 2, CreatedAt: base.Add(time.Hour)},
	})
	_ = catStore.SaveCategories([]domain.Category{
		{ID: "c1", Name: "Computers", Slug: "computers"},
		{ID: "c2", Name: "Phones", Slug: "phones"},
	})
	catalog, err := services.NewCatalogService(catStore, catStore)
	if err != nil {
		t.Fatal(err)
	}

	cartStore := repos.NewMemoryCart()
	carts := handlers.CartFactory(func(sid string) (*services.CartService, error) {
		return services.NewCartService(cartStore, catalog)
	})

	sink := repos.NewMemoryOrders()
	orderSvc := services.NewOrderService(catalog, sink, services.NewSimulatedPayment(0, 1), nil)
	reportSvc := services.NewReportService()

	admin := domain.User{ID: "u-admin", Email: "admin@techmart.test", Name: "Admin", Role: "ADMIN"}
	users := repos.NewMemoryUsers(admin)
	_ = users.BindSession("sid-admin", "u-admin")
	authSvc := &services.AuthService{Users: users}

	app := fiber.New()
	app.Use(requestid.New())

	deps := handlers.NewDeps(catalog, carts, orderSvc, reportSvc, authSvc)
	api := app.Group("/api/v1")
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Post("/cart/quantity", deps.CartHandler.Update)
	api.Post("/checkout", deps.OrderHandler.Checkout)

	adminGrp := app.Group("/admin", handlers.RequireAdmin(authSvc))
	adminGrp.Get("/report", deps.AdminHandler.SalesReport)
	adminGrp.Post("/products", deps.AdminHandler.CreateProduct)

	return app, catalog, sink
}

func form(vals url.Values) (io.Reader, string) {
	return strings.NewReader(vals.Encode()), "application/x-www-form-urlencoded"
}

func doForm(t *testing.T, app *fiber.App, method, path string, vals url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	body, ctype := form(vals)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", ctype)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
}

func TestProductListFilters(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/v1/products?category=c1&inStock=true", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var body struct {
		Products []domain.Product `json:"products"`
	}
	decode(t, resp, &body)
	if len(body.Products) != 1 || body.Products[0].ID != "p1" {
		t.Fatalf("want [p1], got %+v", body.Products)
	}
}

func TestCartFlowOverHTTP(t *testing.T) {
	app, _, _ := newTestApp(t)
	sid := &http.Cookie{Name: "sid", Value: "sid-shopper"}

	resp := doForm(t, app, "POST", "/api/v1/cart", url.Values{"productId": {"p1"}, "qty": {"2"}}, sid)
	if resp.StatusCode != 200 {
		t.Fatalf("add: want 200, got %d", resp.StatusCode)
	}
	var add struct {
		Count int `json:"count"`
	}
	decode(t, resp, &add)
	if add.Count != 2 {
		t.Fatalf("want count 2, got %d", add.Count)
	}

	// over stock: 409 with quantities in the body
	resp = doForm(t, app, "POST", "/api/v1/cart/quantity", url.Values{"productId": {"p1"}, "qty": {"9"}}, sid)
	if resp.StatusCode != 409 {
		t.Fatalf("want 409, got %d", resp.StatusCode)
	}
	var conflict struct {
		Requested int `json:"requested"`
		Available int `json:"available"`
	}
	decode(t, resp, &conflict)
	if conflict.Requested != 9 || conflict.Available != 5 {
		t.Fatalf("conflict payload: %+v", conflict)
	}

	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req.AddCookie(sid)
	vresp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	var view struct {
		Total float64 `json:"total"`
		Count int     `json:"count"`
	}
	decode(t, vresp, &view)
	if view.Count != 2 || view.Total != 1800 {
		t.Fatalf("view after rejected update: %+v", view)
	}
}

func TestCheckoutOverHTTP(t *testing.T) {
	app, catalog, sink := newTestApp(t)
	sid := &http.Cookie{Name: "sid", Value: "sid-buyer"}

	doForm(t, app, "POST", "/api/v1/cart", url.Values{"productId": {"p2"}, "qty": {"1"}}, sid)
	resp := doForm(t, app, "POST", "/api/v1/checkout",
		url.Values{"name": {"Buyer"}, "email": {"buyer@example.com"}}, sid)
	if resp.StatusCode != 201 {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}
	var order domain.Order
	decode(t, resp, &order)
	if order.Total != 500 || order.Status != domain.StatusPending {
		t.Fatalf("bad order: %+v", order)
	}

	if orders, _ := sink.List(storage.OrderFilter{}); len(orders) != 1 {
		t.Fatalf("sink must hold the order, got %d", len(orders))
	}
	p, _ := catalog.GetByID("p2")
	if p.Stock != 1 {
		t.Fatalf("stock must decrement, got %d", p.Stock)
	}
}

func TestAdminRequiresRole(t *testing.T) {
	app, _, _ := newTestApp(t)

	// no session
	resp, err := app.Test(httptest.NewRequest("GET", "/admin/report", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("want 401 without session, got %d", resp.StatusCode)
	}

	// unknown session
	req := httptest.NewRequest("GET", "/admin/report", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-rando"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 403 {
		t.Fatalf("want 403 for non-admin, got %d", resp.StatusCode)
	}

	// admin session
	req = httptest.NewRequest("GET", "/admin/report", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-admin"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200 for admin, got %d", resp.StatusCode)
	}
	var report domain.SalesReport
	decode(t, resp, &report)
	if report.TotalOrders != 0 || report.AverageOrderValue != 0 {
		t.Fatalf("fresh report must be zeroed: %+v", report)
	}
}

func TestAdminCreateProductValidation(t *testing.T) {
	app, _, _ := newTestApp(t)
	admin := &http.Cookie{Name: "sid", Value: "sid-admin"}

	resp := doForm(t, app, "POST", "/admin/products",
		url.Values{"name": {""}, "categoryId": {"c1"}, "price": {"10"}}, admin)
	if resp.StatusCode != 400 {
		t.Fatalf("missing name: want 400, got %d", resp.StatusCode)
	}

	resp = doForm(t, app, "POST", "/admin/products",
		url.Values{"name": {"No Price"}, "categoryId": {"c1"}, "stock": {"4"}}, admin)
	if resp.StatusCode != 400 {
		t.Fatalf("missing price: want 400, got %d", resp.StatusCode)
	}

	resp = doForm(t, app, "POST", "/admin/products",
		url.Values{"name": {"New Widget"}, "categoryId": {"c1"}, "price": {"10"}, "stock": {"4"}}, admin)
	if resp.StatusCode != 201 {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}
	var p domain.Product
	decode(t, resp, &p)
	if p.ID == "" || p.Slug != "new-widget" {
		t.Fatalf("created product: %+v", p)
	}
}
