package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/catalogo-io/catalog-admin/internal/users"
	"github.com/catalogo-io/catalog-admin/pkg/config"
	"github.com/catalogo-io/catalog-admin/pkg/enums"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
	"github.com/catalogo-io/catalog-admin/pkg/security"
)

// SeedResult reports what EnsureAdmin did.
type SeedResult struct {
	Created bool
	Email   string
}

// EnsureAdmin provisions the initial admin account. It is an explicit,
// idempotent operation run by the seeding command, never as a side effect
// of migrations; running it twice is a no-op. Credentials always come from
// configuration.
func EnsureAdmin(ctx context.Context, repo *users.Repository, passwordCfg config.PasswordConfig, seedCfg config.SeedAdminConfig) (*SeedResult, error) {
	email := strings.ToLower(strings.TrimSpace(seedCfg.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seed admin email is required")
	}
	if strings.TrimSpace(seedCfg.Password) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seed admin password is required")
	}

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin user")
	}
	if existing != nil {
		return &SeedResult{Created: false, Email: email}, nil
	}

	hash, err := security.HashPassword(seedCfg.Password, passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
	}

	if _, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleAdmin,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("create admin user %s", email))
	}
	return &SeedResult{Created: true, Email: email}, nil
}
