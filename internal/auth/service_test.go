package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/catalogo-io/catalog-admin/pkg/auth"
	"github.com/catalogo-io/catalog-admin/pkg/config"
	"github.com/catalogo-io/catalog-admin/pkg/db/models"
	"github.com/catalogo-io/catalog-admin/pkg/enums"
	pkgerrors "github.com/catalogo-io/catalog-admin/pkg/errors"
	"github.com/catalogo-io/catalog-admin/pkg/security"
)

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    32768,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

var testJWTCfg = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "catalog-admin",
	ExpirationMinutes: 30,
}

type fakeUserRepo struct {
	usersByEmail map[string]*models.User
	lastLoginSet bool
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.usersByEmail[email]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, _ time.Time) error {
	f.lastLoginSet = true
	return nil
}

func newFakeRepo(t *testing.T, email, password string, active bool) *fakeUserRepo {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordCfg)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &fakeUserRepo{usersByEmail: map[string]*models.User{
		email: {
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: hash,
			Role:         enums.UserRoleAdmin,
			IsActive:     active,
		},
	}}
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeRepo(t, "admin@example.com", "correct horse", true)
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: testJWTCfg})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Admin@Example.com ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}
	if !repo.lastLoginSet {
		t.Fatal("expected last login to be recorded")
	}
	if resp.User == nil || resp.User.Email != "admin@example.com" {
		t.Fatalf("unexpected user payload %+v", resp.User)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTCfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
}

func TestLoginRejections(t *testing.T) {
	repo := newFakeRepo(t, "admin@example.com", "correct horse", true)
	inactive := newFakeRepo(t, "gone@example.com", "pw", false)

	cases := []struct {
		name  string
		repo  *fakeUserRepo
		email string
		pass  string
	}{
		{"wrong password", repo, "admin@example.com", "wrong"},
		{"unknown email", repo, "nobody@example.com", "correct horse"},
		{"empty email", repo, "   ", "correct horse"},
		{"inactive user", inactive, "gone@example.com", "pw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewService(ServiceParams{UserRepo: tc.repo, JWTConfig: testJWTCfg})
			if err != nil {
				t.Fatalf("new service: %v", err)
			}
			_, err = svc.Login(context.Background(), LoginRequest{Email: tc.email, Password: tc.pass})
			if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
				t.Fatalf("expected UNAUTHORIZED, got %v", err)
			}
		})
	}
}
