package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"techmart/internal/domain"
	"techmart/internal/storage"
)

// ErrBadCreds deliberately carries no detail about which part failed.
var ErrBadCreds = errors.New("invalid email or password")

// AuthService resolves the current user for a session and gates admin
// operations. Credentials are bcrypt-verified against the user store.
type AuthService struct {
	Users storage.UserStore
}

// Login verifies credentials and binds the session to the user. Email
// matching is case-insensitive and ignores surrounding whitespace.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
