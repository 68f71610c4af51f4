package services

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailInUse = errors.New("email is already registered")
)

// AuthService issues session tokens and resolves them back to an owner
// identity. The cart and checkout services trust whatever identity the
// transport hands them.
type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Register(email, username, password string) (*domain.User, error) {
	if u, _ := s.Users.ByEmail(email); u != nil {
		return nil, ErrEmailInUse
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		Hash:     string(h),
		Role:     "USER",
		Status:   "active",
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login verifies credentials and returns a fresh session token.
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	token := uuid.NewString()
	if err := s.Users.BindSession(token, u.ID); err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Logout(token string) error {
	return s.Users.UnbindSession(token)
}

func (s *AuthService) CurrentUser(token string) (*domain.User, error) {
	return s.Users.SessionUser(token)
}
