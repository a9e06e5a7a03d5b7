package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/pkg/cryptox"
	"github.com/ledgerline/backoffice/pkg/idx"
)

const minPasswordLength = 8

var (
	ErrEmailTaken      = errors.New("email_taken")
	ErrInvalidRegister = errors.New("invalid_registration")
)

// RegistrationService handles client self-registration. Staff accounts are
// never self-registered; they come through invites.
type RegistrationService struct {
	Store store.Store
}

// Register creates an active client user. The email is lowercased and must
// be unique; company access only arrives later, through membership edges
// granted by office staff.
func (s *RegistrationService) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return domain.User{}, ErrInvalidRegister
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleClient,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}
