package services

import (
	"sort"
	"time"

	"techmart/internal/domain"
)

// ReportService aggregates order history for the admin view. Report is a
// pure function of its inputs.
type ReportService struct{}

func NewReportService() *ReportService { return &ReportService{} }

// Report filters orders to those dated within [start, end] inclusive and
// aggregates totals, per-category sales and the top sellers.
//
// The category map is sparse: categories without sales never appear as
// zero entries. Top products rank by total quantity, not revenue, with
// ties keeping encounter order, truncated to ten.
func (s *ReportService) Report(orders []domain.Order, start, end time.Time) domain.SalesReport {
	r := domain.SalesReport{SalesByCategory: map[string]float64{}}

	byProduct := map[string]int{}
	var top []domain.ProductSales

	for _, o := range orders {
		if o.Date.Before(start) || o.Date.After(end) {
			continue
		}
		r.TotalOrders++
		r.TotalSales += o.Total

		for _, it := range o.Items {
			line := it.Price * float64(it.Quantity)
			if it.Category != "" {
				r.SalesByCategory[it.Category] += line
			}
			if i, ok := byProduct[it.ProductID]; ok {
				top[i].Quantity += it.Quantity
				top[i].Revenue += line
			} else {
				byProduct[it.ProductID] = len(top)
				top = append(top, domain.ProductSales{
					ProductID: it.ProductID,
					Name:      it.Name,
					Quantity:  it.Quantity,
					Revenue:   line,
				})
			}
		}
	}

	if r.TotalOrders > 0 {
		r.AverageOrderValue = r.TotalSales / float64(r.TotalOrders)
	}

	sort.SliceStable(top, func(i, j int) bool { return top[i].Quantity > top[j].Quantity })
	if len(top) > 10 {
		top = top[:10]
	}
	r.TopProducts = top
	return r
}
