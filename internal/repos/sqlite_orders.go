package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"techmart/internal/domain"
	"techmart/internal/storage"
)

type SqliteOrders struct{ db *sqlx.DB }

func NewSqliteOrders(db *sqlx.DB) *SqliteOrders { return &SqliteOrders{db: db} }

type orderRow struct {
	ID            string  `db:"id"`
	Date          string  `db:"date"`
	Status        string  `db:"status"`
	Total         float64 `db:"total"`
	CustomerName  string  `db:"customer_name"`
	CustomerEmail string  `db:"customer_email"`
}

type orderItemRow struct {
	OrderID   string  `db:"order_id"`
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Category  string  `db:"category"`
	Price     float64 `db:"price"`
	Qty       int     `db:"qty"`
}

func (r *SqliteOrders) Append(o domain.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id, date, status, total, customer_name, customer_email)
	  VALUES(?,?,?,?,?,?)
	`, o.ID, fmtTime(o.Date), string(o.Status), o.Total, o.CustomerName, o.CustomerEmail); err != nil {
		return err
	}
	for i, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, pos, product_id, name, category, price, qty)
		  VALUES(?,?,?,?,?,?,?)
		`, o.ID, i, it.ProductID, it.Name, it.Category, it.Price, it.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SqliteOrders) List(f storage.OrderFilter) ([]domain.Order, error) {
	where := `1=1`
	args := []any{}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		where += ` AND date >= ?`
		args = append(args, fmtTime(f.From))
	}
	if !f.To.IsZero() {
		where += ` AND date <= ?`
		args = append(args, fmtTime(f.To))
	}

	var rows []orderRow
	err := r.db.Select(&rows, `
	  SELECT id, date, status, total,
	         COALESCE(customer_name,'') AS customer_name,
	         COALESCE(customer_email,'') AS customer_email
	  FROM orders WHERE `+where+` ORDER BY date
	`, args...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := r.hydrate(row)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *SqliteOrders) Get(id string) (domain.Order, error) {
	var row orderRow
	err := r.db.Get(&row, `
	  SELECT id, date, status, total,
	         COALESCE(customer_name,'') AS customer_name,
	         COALESCE(customer_email,'') AS customer_email
	  FROM orders WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return r.hydrate(row)
}

func (r *SqliteOrders) UpdateStatus(id string, status domain.OrderStatus) error {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *SqliteOrders) hydrate(row orderRow) (domain.Order, error) {
	var items []orderItemRow
	if err := r.db.Select(&items, `
	  SELECT order_id, product_id, name, COALESCE(category,'') AS category, price, qty
	  FROM order_items WHERE order_id = ? ORDER BY pos
	`, row.ID); err != nil {
		return domain.Order{}, err
	}
	o := domain.Order{
		ID:            row.ID,
		Date:          parseTime(row.Date),
		Status:        domain.OrderStatus(row.Status),
		Total:         row.Total,
		CustomerName:  row.CustomerName,
		CustomerEmail: row.CustomerEmail,
	}
	for _, it := range items {
		o.Items = append(o.Items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Category:  it.Category,
			Price:     it.Price,
			Quantity:  it.Qty,
		})
	}
	return o, nil
}
