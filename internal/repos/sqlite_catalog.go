package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"techmart/internal/domain"
)

// SqliteCatalog persists products and categories as whole snapshots, the
// contract the catalog service expects. The pos column preserves catalog
// insertion order across reloads.
type SqliteCatalog struct{ db *sqlx.DB }

func NewSqliteCatalog(db *sqlx.DB) *SqliteCatalog { return &SqliteCatalog{db: db} }

type productRow struct {
	ID            string  `db:"id"`
	Pos           int     `db:"pos"`
	CategoryID    string  `db:"category_id"`
	Name          string  `db:"name"`
	Slug          string  `db:"slug"`
	Description   string  `db:"description"`
	Price         float64 `db:"price"`
	OriginalPrice float64 `db:"original_price"`
	Stock         int     `db:"stock"`
	Featured      bool    `db:"featured"`
	SpecsJSON     string  `db:"specs_json"`
	CreatedAt     string  `db:"created_at"`
	UpdatedAt     string  `db:"updated_at"`
}

func (r *SqliteCatalog) LoadProducts() ([]domain.Product, error) {
	var rows []productRow
	err := r.db.Select(&rows, `
	  SELECT id, pos, category_id, name, slug,
	         COALESCE(description,'') AS description,
	         price, original_price, stock, featured,
	         COALESCE(specs_json,'') AS specs_json,
	         COALESCE(created_at,'') AS created_at,
	         COALESCE(updated_at,'') AS updated_at
	  FROM products ORDER BY pos
	`)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p := domain.Product{
			ID:            row.ID,
			CategoryID:    row.CategoryID,
			Name:          row.Name,
			Slug:          row.Slug,
			Description:   row.Description,
			Price:         row.Price,
			OriginalPrice: row.OriginalPrice,
			Stock:         row.Stock,
			Featured:      row.Featured,
			CreatedAt:     parseTime(row.CreatedAt),
			UpdatedAt:     parseTime(row.UpdatedAt),
		}
		if row.SpecsJSON != "" {
			_ = json.Unmarshal([]byte(row.SpecsJSON), &p.Specs)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *SqliteCatalog) SaveProducts(ps []domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return err
	}
	for i, p := range ps {
		specs := ""
		if len(p.Specs) > 0 {
			b, err := json.Marshal(p.Specs)
			if err != nil {
				return err
			}
			specs = string(b)
		}
		if _, err := tx.Exec(`
		  INSERT INTO products(id, pos, category_id, name, slug, description,
		    price, original_price, stock, featured, specs_json, created_at, updated_at)
		  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)
		`, p.ID, i, p.CategoryID, p.Name, p.Slug, p.Description,
			p.Price, p.OriginalPrice, p.Stock, p.Featured, specs,
			fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type categoryRow struct {
	ID          string `db:"id"`
	Pos         int    `db:"pos"`
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r *SqliteCatalog) LoadCategories() ([]domain.Category, error) {
	var rows []categoryRow
	err := r.db.Select(&rows, `
	  SELECT id, pos, name, slug,
	         COALESCE(description,'') AS description,
	         COALESCE(created_at,'') AS created_at,
	         COALESCE(updated_at,'') AS updated_at
	  FROM categories ORDER BY pos
	`)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Category{
			ID:          row.ID,
			Name:        row.Name,
			Slug:        row.Slug,
			Description: row.Description,
			CreatedAt:   parseTime(row.CreatedAt),
			UpdatedAt:   parseTime(row.UpdatedAt),
		})
	}
	return out, nil
}

func (r *SqliteCatalog) SaveCategories(cs []domain.Category) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM categories`); err != nil {
		return err
	}
	for i, c := range cs {
		if _, err := tx.Exec(`
		  INSERT INTO categories(id, pos, name, slug, description, created_at, updated_at)
		  VALUES(?,?,?,?,?,?,?)
		`, c.ID, i, c.Name, c.Slug, c.Description,
			fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
