package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"techmart/internal/domain"
	"techmart/internal/storage"
)

type SqliteUsers struct{ db *sqlx.DB }

func NewSqliteUsers(db *sqlx.DB) *SqliteUsers { return &SqliteUsers{db: db} }

func (r *SqliteUsers) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SqliteUsers) BindSession(sid, userID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO sessions(id, user_id, last_seen)
	  VALUES(?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id, last_seen=CURRENT_TIMESTAMP
	`, sid, userID)
	return err
}

func (r *SqliteUsers) UnbindSession(sid string) error {
	_, err := r.db.Exec(`UPDATE sessions SET user_id=NULL, last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

func (r *SqliteUsers) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `
	  SELECT u.id,u.email,u.name,u.password_hash,u.role
	  FROM sessions s JOIN users u ON u.id=s.user_id
	  WHERE s.id=?
	`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SeedUsers ensures a default admin and a demo customer exist. Idempotent;
// safe to run every start.
func SeedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Raw string
	}
	users := []u{
		{"u-admin", "admin@techmart.test", "Admin", "ADMIN", "Adm1nPass!"},
		{"u-demo", "demo@techmart.test", "Demo", "USER", "Passw0rd!"},
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		h, err := bcrypt.GenerateFromPassword([]byte(x.Raw), 12)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
		  INSERT INTO users(id,email,name,password_hash,role)
		  VALUES(?,?,?,?,?)
		  ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, string(h), x.Role); err != nil {
			return err
		}
	}
	return tx.Commit()
}
