package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledgerline/backoffice/internal/backoffice/domain"
	"github.com/ledgerline/backoffice/internal/backoffice/store"
	"github.com/ledgerline/backoffice/pkg/cryptox"
	"github.com/ledgerline/backoffice/pkg/idx"
	"github.com/ledgerline/backoffice/pkg/slogx"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid_invite_request")
	ErrInviteNotFound       = errors.New("invite_not_found_or_expired")
)

// InviteService onboards office staff. An office admin mints a single-use
// token bound to their office and a staff sub-role; redeeming it creates an
// active user with the matching office membership.
type InviteService struct {
	Store store.Store
}

// MintInvite creates an invite into the minter's own office. The opaque
// token is returned once; only its fingerprint is stored.
func (s *InviteService) MintInvite(
	ctx context.Context,
	createdBy string,
	officeRole domain.OfficeRole,
	expiresAt time.Time,
) (string, error) {
	l := slogx.FromContext(ctx)

	if officeRole != domain.OfficeRoleAdmin && officeRole != domain.OfficeRoleCollaborator {
		return "", ErrInvalidInviteRequest
	}
	if expiresAt.Before(time.Now()) {
		return "", ErrInvalidInviteRequest
	}

	// The minter must belong to an office; the invite is scoped to it.
	membership, err := s.Store.Tenants().GetOfficeMembership(ctx, createdBy)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrForbidden
		}
		return "", fmt.Errorf("get office membership: %w", err)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}

	invite := domain.Invite{
		ID:         idx.New().String(),
		TokenHash:  cryptox.FingerprintToken(token),
		OfficeID:   membership.OfficeID,
		OfficeRole: officeRole,
		CreatedBy:  createdBy,
		ExpiresAt:  expiresAt,
	}
	if err := s.Store.Invites().CreateInvite(ctx, invite); err != nil {
		return "", fmt.Errorf("create invite: %w", err)
	}

	l.Info("invite minted",
		slog.String("office_id", membership.OfficeID),
		slog.String("office_role", string(officeRole)),
	)
	return token, nil
}

// RedeemInvite consumes an invite and creates the staff user plus their
// office membership in one transaction, so a crash can never leave a
// half-onboarded account behind.
func (s *InviteService) RedeemInvite(
	ctx context.Context,
	token, email, password, name string,
) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return domain.User{}, ErrInvalidRegister
	}

	invite, err := s.Store.Invites().GetActiveInviteByTokenHash(
		ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInviteNotFound
		}
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := domain.RoleOfficeCollaborator
	if invite.OfficeRole == domain.OfficeRoleAdmin {
		role = domain.RoleOfficeAdmin
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		Status:       domain.UserStatusActive,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		if err := tx.Tenants().CreateOfficeMembership(ctx, domain.OfficeMembership{
			UserID:   user.ID,
			OfficeID: invite.OfficeID,
			Role:     invite.OfficeRole,
		}); err != nil {
			return err
		}

		return tx.Invites().MarkInviteUsed(ctx, invite.ID, user.ID)
	})
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
