package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/pkg/cryptox"
	"github.com/ledgerline/backoffice/pkg/idx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("already_bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized_bootstrap")
)

// BootstrapService seeds the first system administrator into an empty
// store, gated by a pre-shared token from configuration.
type BootstrapService struct {
	Store store.Store
	Token string
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first system administrator. Refused once any user
// exists, or when the presented token does not match.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, password, name string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if bootstrapped {
		l.Warn("bootstrap attempted on populated store")
		return domain.User{}, ErrBootstrapAlready
	}

	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("bootstrap attempted with bad token")
		return domain.User{}, ErrBootstrapUnauthorized
	}

	email = strings.ToLower(strings.TrimSpace(email))
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
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         domain.RoleSystemAdmin,
		Status:       domain.UserStatusActive,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrBootstrapAlready
		}
		return domain.User{}, fmt.Errorf("create admin: %w", err)
	}

	l.Info("system bootstrapped")
	return user, nil
}
