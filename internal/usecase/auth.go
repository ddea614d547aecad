package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/sourbakery/internal/domain/errors"
	"github.com/polkiloo/sourbakery/internal/domain/model"
	"github.com/polkiloo/sourbakery/internal/domain/repository"
	pkgAuth "github.com/polkiloo/sourbakery/internal/pkg/auth"
)

// AdminAllowlist decides which emails may act as admins.
type AdminAllowlist interface {
	IsAdminEmail(email string) bool
}

// AuthUseCase handles admin credentials and session tokens.
type AuthUseCase struct {
	admins    repository.AdminRepository
	hasher    pkgAuth.PasswordHasher
	tokens    pkgAuth.Strategy
	allowlist AdminAllowlist
	logger    *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	admins repository.AdminRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	allowlist AdminAllowlist,
	logger *slog.Logger,
) *AuthUseCase {
	return &AuthUseCase{admins: admins, hasher: hasher, tokens: strategy, allowlist: allowlist, logger: logger}
}

// AddAdmin creates or resets the password of an allowlisted admin.
func (u *AuthUseCase) AddAdmin(ctx context.Context, email, password string) (*model.Admin, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}
	if !u.allowlist.IsAdminEmail(email) {
		return nil, domainErrors.ErrForbidden
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	admin, err := u.admins.Upsert(ctx, email, hash)
	if err != nil {
		return nil, err
	}
	u.logger.Info("admin credentials stored", slog.String("email", email))
	return admin, nil
}

// Authenticate validates credentials and returns a session token. Emails that
// are not allowlisted are rejected like a wrong password.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.Admin, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || !u.allowlist.IsAdminEmail(email) {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	admin, err := u.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(admin.PasswordHash, password); err != nil {
		u.logger.Warn("admin login failed", slog.String("email", email))
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(admin.Email)
	if err != nil {
		return nil, "", err
	}

	return admin, token, nil
}

// ParsePrincipal resolves a token to its caller. IsAdmin is evaluated against
// the current allowlist, not the one in force when the token was issued.
func (u *AuthUseCase) ParsePrincipal(token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	email, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Principal{}, err
	}
	return model.Principal{Email: email, IsAdmin: u.allowlist.IsAdminEmail(email)}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
