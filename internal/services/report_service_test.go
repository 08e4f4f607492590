package services_test

import (
	"testing"
	"time"

	"techmart/internal/domain"
	"techmart/internal/services"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC)
}

func TestReportEmptyInput(t *testing.T) {
	r := services.NewReportService().Report(nil, day(1), day(31))

	if r.TotalOrders != 0 || r.TotalSales != 0 {
		t.Fatalf("empty report: %+v", r)
	}
	if r.AverageOrderValue != 0 {
		t.Fatalf("averageOrderValue must be exactly 0 with no orders, got %v", r.AverageOrderValue)
	}
	if len(r.SalesByCategory) != 0 || len(r.TopProducts) != 0 {
		t.Fatalf("aggregates must be empty: %+v", r)
	}
}

func TestReportDateBoundsInclusive(t *testing.T) {
	orders := []domain.Order{
		{ID: "o1", Date: day(1), Total: 10},
		{ID: "o2", Date: day(15), Total: 20},
		{ID: "o3", Date: day(31), Total: 30},
		{ID: "o4", Date: day(31).Add(time.Second), Total: 99},
	}
	r := services.NewReportService().Report(orders, day(1), day(31))

	if r.TotalOrders != 3 {
		t.Fatalf("bounds are inclusive: want 3 orders, got %d", r.TotalOrders)
	}
	if r.TotalSales != 60 {
		t.Fatalf("want totalSales 60, got %v", r.TotalSales)
	}
	if r.AverageOrderValue != 20 {
		t.Fatalf("want averageOrderValue 20, got %v", r.AverageOrderValue)
	}
}

func TestSalesByCategorySparse(t *testing.T) {
	orders := []domain.Order{
		{ID: "o1", Date: day(2), Total: 25, Items: []domain.OrderItem{
			{ProductID: "p1", Name: "A1", Category: "A", Price: 10, Quantity: 2},
			{ProductID: "p2", Name: "B1", Category: "B", Price: 5, Quantity: 1},
		}},
	}
	r := services.NewReportService().Report(orders, day(1), day(31))

	if len(r.SalesByCategory) != 2 {
		t.Fatalf("map must be sparse, got %+v", r.SalesByCategory)
	}
	if r.SalesByCategory["A"] != 20 || r.SalesByCategory["B"] != 5 {
		t.Fatalf("want {A:20 B:5}, got %+v", r.SalesByCategory)
	}
}

func TestTopProductsQuantityRankAndStableTies(t *testing.T) {
	orders := []domain.Order{
		{ID: "o1", Date: day(2), Items: []domain.OrderItem{
			// cheap item, high quantity: must outrank the expensive one
			{ProductID: "cable", Name: "Cable", Category: "A", Price: 2, Quantity: 7},
			{ProductID: "tv", Name: "TV", Category: "A", Price: 1000, Quantity: 1},
			{ProductID: "mouse", Name: "Mouse", Category: "A", Price: 25, Quantity: 3},
		}},
		{ID: "o2", Date: day(3), Items: []domain.OrderItem{
			{ProductID: "keyboard", Name: "Keyboard", Category: "A", Price: 45, Quantity: 3},
			{ProductID: "tv", Name: "TV", Category: "A", Price: 1000, Quantity: 1},
		}},
	}
	r := services.NewReportService().Report(orders, day(1), day(31))

	if r.TopProducts[0].ProductID != "cable" {
		t.Fatalf("rank by quantity, not revenue: got %+v", r.TopProducts)
	}
	// mouse and keyboard tie at 3; mouse was encountered first
	if r.TopProducts[1].ProductID != "mouse" || r.TopProducts[2].ProductID != "keyboard" {
		t.Fatalf("ties keep encounter order: got %+v", r.TopProducts)
	}
	if tv := r.TopProducts[3]; tv.ProductID != "tv" || tv.Quantity != 2 || tv.Revenue != 2000 {
		t.Fatalf("aggregation across orders: got %+v", tv)
	}
}

func TestTopProductsTruncatesToTen(t *testing.T) {
	var items []domain.OrderItem
	for i := 0; i < 14; i++ {
		items = append(items, domain.OrderItem{
			ProductID: string(rune('a' + i)),
			Name:      "P",
			Category:  "A",
			Price:     1,
			Quantity:  1,
		})
	}
	orders := []domain.Order{{ID: "o1", Date: day(2), Items: items}}
	r := services.NewReportService().Report(orders, day(1), day(31))

	if len(r.TopProducts) != 10 {
		t.Fatalf("want top 10, got %d", len(r.TopProducts))
	}
}

func TestReportIsPure(t *testing.T) {
	orders := []domain.Order{
		{ID: "o1", Date: day(2), Total: 10, Items: []domain.OrderItem{
			{ProductID: "p1", Name: "A1", Category: "A", Price: 5, Quantity: 2},
		}},
	}
	svc := services.NewReportService()
	a := svc.Report(orders, day(1), day(31))
	b := svc.Report(orders, day(1), day(31))

	if a.TotalSales != b.TotalSales || a.TotalOrders != b.TotalOrders ||
		len(a.TopProducts) != len(b.TopProducts) {
		t.Fatalf("repeated calls diverge: %+v vs %+v", a, b)
	}
}
