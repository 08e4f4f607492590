package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"techmart/internal/domain"
)

// SeedCatalogIfEmpty loads demo categories and products on first start so
// the storefront renders something out of the box.
func SeedCatalogIfEmpty(db *sqlx.DB) error {
	cat := NewSqliteCatalog(db)
	existing, err := cat.LoadProducts()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now().UTC()
	categories := []domain.Category{
		{ID: "laptops", Name: "Laptops", Slug: "laptops", Description: "Portable workstations", CreatedAt: now},
		{ID: "phones", Name: "Smartphones", Slug: "phones", CreatedAt: now},
		{ID: "audio", Name: "Audio", Slug: "audio", Description: "Headphones and speakers", CreatedAt: now},
	}
	products := []domain.Product{
		{
			ID: "lp-100", CategoryID: "laptops", Name: "AeroBook 14",
			Slug: "aerobook-14", Description: "Thin and light 14-inch laptop",
			Price: 899.00, OriginalPrice: 999.00, Stock: 12, Featured: true,
			Specs:     []domain.Spec{{Name: "RAM", Value: "16 GB"}, {Name: "Storage", Value: "512 GB SSD"}},
			CreatedAt: now.Add(-72 * time.Hour),
		},
		{
			ID: "ph-200", CategoryID: "phones", Name: "Pulse X2",
			Slug: "pulse-x2", Description: "6.1-inch OLED smartphone",
			Price: 649.00, Stock: 25, Featured: true,
			CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			ID: "au-300", CategoryID: "audio", Name: "Solace ANC Headphones",
			Slug: "solace-anc", Description: "Over-ear noise cancelling headphones",
			Price: 199.50, Stock: 8,
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}

	if err := cat.SaveCategories(categories); err != nil {
		return err
	}
	return cat.SaveProducts(products)
}
