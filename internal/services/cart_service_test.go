package services_test

import (
	"errors"
	"reflect"
	"testing"

	"techmart/internal/domain"
	"techmart/internal/repos"
	"techmart/internal/services"
)

func newCart(t *testing.T, catalog *services.CatalogService) (*services.CartService, *repos.MemoryCart) {
	t.Helper()
	store := repos.NewMemoryCart()
	cart, err := services.NewCartService(store, catalog)
	if err != nil {
		t.Fatal(err)
	}
	return cart, store
}

// The scenario from the storefront: stock 5, add 3, raise to 5, reject 6,
// remove via zero.
func TestCartStockScenario(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, _ := newCart(t, svc)

	if err := cart.AddItem("p1", 3); err != nil {
		t.Fatal(err)
	}
	if n := cart.ItemCount(); n != 3 {
		t.Fatalf("want itemCount 3, got %d", n)
	}

	if err := cart.UpdateQuantity("p1", 5); err != nil {
		t.Fatal(err)
	}

	err := cart.UpdateQuantity("p1", 6)
	if !domain.IsInsufficientStock(err) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if got := cart.Lines()[0].Quantity; got != 5 {
		t.Fatalf("no clamping: quantity must stay 5, got %d", got)
	}

	if err := cart.UpdateQuantity("p1", 0); err != nil {
		t.Fatal(err)
	}
	if n := cart.ItemCount(); n != 0 {
		t.Fatalf("want empty cart, got itemCount %d", n)
	}
}

func TestAddItemMergesAndRejectsAtomically(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, store := newCart(t, svc)

	if err := cart.AddItem("p1", 4); err != nil { // stock 5
		t.Fatal(err)
	}
	before := cart.Lines()
	saves := store.Saves

	err := cart.AddItem("p1", 2) // 4+2 > 5
	var is *domain.InsufficientStockError
	if !errors.As(err, &is) {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if is.Requested != 6 || is.Available != 5 {
		t.Fatalf("error must carry attempted and available quantities: %+v", is)
	}
	if !reflect.DeepEqual(before, cart.Lines()) {
		t.Fatalf("cart changed on rejected add:\nbefore %+v\nafter  %+v", before, cart.Lines())
	}
	if store.Saves != saves {
		t.Fatal("failed validation must not persist")
	}

	if err := cart.AddItem("p1", 1); err != nil {
		t.Fatal(err)
	}
	if got := cart.Lines()[0].Quantity; got != 5 {
		t.Fatalf("merged quantity: want 5, got %d", got)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, _ := newCart(t, svc)

	if err := cart.AddItem("ghost", 1); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestItemCountSumsQuantities(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, _ := newCart(t, svc)

	if err := cart.AddItem("p1", 3); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddItem("p3", 3); err != nil {
		t.Fatal(err)
	}
	if n := cart.ItemCount(); n != 6 {
		t.Fatalf("two lines of 3 must count 6 items, got %d", n)
	}
}

func TestTotalMatchesIndependentRecompute(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, _ := newCart(t, svc)

	if err := cart.AddItem("p1", 2); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddItem("p4", 3); err != nil {
		t.Fatal(err)
	}
	if err := cart.UpdateQuantity("p4", 1); err != nil {
		t.Fatal(err)
	}
	if err := cart.RemoveItem("p1"); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddItem("p3", 2); err != nil {
		t.Fatal(err)
	}

	want := 0.0
	for _, r := range cart.Materialize() {
		p, err := svc.GetByID(r.Line.ProductID)
		if err != nil {
			t.Fatal(err)
		}
		want += p.Price * float64(r.Line.Quantity)
	}
	if got := cart.Total(); got != want {
		t.Fatalf("total %v != recomputed %v", got, want)
	}
}

func TestEmptyCartTotalsZero(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, _ := newCart(t, svc)

	if got := cart.Total(); got != 0 {
		t.Fatalf("empty cart must total exactly 0, got %v", got)
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, _ := newCart(t, svc)

	if err := cart.RemoveItem("p1"); err != nil {
		t.Fatalf("removing an absent line is a no-op, got %v", err)
	}
}

func TestMaterializeDropsOrphans(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, _ := newCart(t, svc)

	if err := cart.AddItem("p1", 1); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddItem("p3", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Delete("p1"); err != nil {
		t.Fatal(err)
	}

	rows := cart.Materialize()
	if len(rows) != 1 || rows[0].Product.ID != "p3" {
		t.Fatalf("orphan line must be dropped silently, got %+v", rows)
	}
	if got := cart.Total(); got != 2*80 {
		t.Fatalf("total over materialized rows: want 160, got %v", got)
	}
}

func TestMutationPurgesOrphanLines(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, store := newCart(t, svc)

	if err := cart.AddItem("p1", 3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Delete("p1"); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddItem("p3", 1); err != nil {
		t.Fatal(err)
	}

	if n := cart.ItemCount(); n != 1 {
		t.Fatalf("ghost quantities must not survive a mutation, got itemCount %d", n)
	}
	lines := cart.Lines()
	if len(lines) != 1 || lines[0].ProductID != "p3" {
		t.Fatalf("deleted product must be purged from the line set: %+v", lines)
	}

	// and the purge is what got persisted
	reloaded, err := services.NewCartService(store, svc)
	if err != nil {
		t.Fatal(err)
	}
	if n := reloaded.ItemCount(); n != 1 {
		t.Fatalf("persisted lines must drop the deleted product, got itemCount %d", n)
	}
}

func TestCartReloadsFromStorage(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	store := repos.NewMemoryCart()

	first, err := services.NewCartService(store, svc)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.AddItem("p1", 2); err != nil {
		t.Fatal(err)
	}

	second, err := services.NewCartService(store, svc)
	if err != nil {
		t.Fatal(err)
	}
	if n := second.ItemCount(); n != 2 {
		t.Fatalf("a fresh service must see persisted lines, got %d", n)
	}
}

func TestStockNeverExceededAfterSuccess(t *testing.T) {
	svc := seedCatalog(t, demoProducts(), demoCategories())
	cart, _ := newCart(t, svc)

	ops := []func() error{
		func() error { return cart.AddItem("p1", 2) },
		func() error { return cart.AddItem("p4", 3) },
		func() error { return cart.UpdateQuantity("p1", 5) },
		func() error { return cart.AddItem("p3", 10) },
		func() error { return cart.UpdateQuantity("p4", 1) },
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		for _, l := range cart.Lines() {
			p, err := svc.GetByID(l.ProductID)
			if err != nil {
				t.Fatal(err)
			}
			if l.Quantity > p.Stock {
				t.Fatalf("op %d: quantity %d exceeds stock %d for %s", i, l.Quantity, p.Stock, l.ProductID)
			}
		}
	}
}
