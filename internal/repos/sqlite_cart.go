package repos

import (
	"github.com/jmoiron/sqlx"

	"techmart/internal/domain"
)

// SqliteCart stores one session's cart lines. Construct one per session;
// the cart service reloads at construction and saves after every
// mutation, which gives last-writer-wins across instances.
type SqliteCart struct {
	db        *sqlx.DB
	sessionID string
}

func NewSqliteCart(db *sqlx.DB, sessionID string) *SqliteCart {
	return &SqliteCart{db: db, sessionID: sessionID}
}

type cartLineRow struct {
	ProductID string `db:"product_id"`
	Qty       int    `db:"qty"`
	AddedAt   string `db:"added_at"`
}

func (r *SqliteCart) Load() ([]domain.CartLine, error) {
	var rows []cartLineRow
	err := r.db.Select(&rows, `
	  SELECT product_id, qty, COALESCE(added_at,'') AS added_at
	  FROM cart_lines WHERE session_id = ? ORDER BY pos
	`, r.sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CartLine{
			ProductID: row.ProductID,
			Quantity:  row.Qty,
			AddedAt:   parseTime(row.AddedAt),
		})
	}
	return out, nil
}

func (r *SqliteCart) Save(lines []domain.CartLine) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cart_lines WHERE session_id = ?`, r.sessionID); err != nil {
		return err
	}
	for i, l := range lines {
		if _, err := tx.Exec(`
		  INSERT INTO cart_lines(session_id, pos, product_id, qty, added_at)
		  VALUES(?,?,?,?,?)
		`, r.sessionID, i, l.ProductID, l.Quantity, fmtTime(l.AddedAt)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
