package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/catalogo-io/catalog-admin/internal/auth"
	"github.com/catalogo-io/catalog-admin/internal/categories"
	"github.com/catalogo-io/catalog-admin/internal/media"
	"github.com/catalogo-io/catalog-admin/internal/products"
	pkgAuth "github.com/catalogo-io/catalog-admin/pkg/auth"
	"github.com/catalogo-io/catalog-admin/pkg/config"
	"github.com/catalogo-io/catalog-admin/pkg/enums"
	"github.com/catalogo-io/catalog-admin/pkg/pagination"
)

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubCategoryService struct{}

func (stubCategoryService) CreateCategory(ctx context.Context, input categories.CreateCategoryInput) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{}, nil
}

func (stubCategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input categories.UpdateCategoryInput) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{}, nil
}

func (stubCategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubCategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*categories.CategoryDTO, error) {
	return &categories.CategoryDTO{}, nil
}

func (stubCategoryService) ListCategories(ctx context.Context) ([]categories.CategoryDTO, error) {
	return nil, nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(ctx context.Context, input products.CreateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (stubProductService) ListProducts(ctx context.Context, categoryID *uuid.UUID, params pagination.Params) (*products.ProductPage, error) {
	return &products.ProductPage{Items: []products.ProductDTO{}}, nil
}

type stubMediaService struct{}

func (stubMediaService) AttachFiles(ctx context.Context, productID uuid.UUID, files []media.FileInput) ([]media.MediaDTO, error) {
	return nil, nil
}

func (stubMediaService) NormalizePositions(ctx context.Context, productID uuid.UUID) (int, error) {
	return 0, nil
}

func (stubMediaService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]media.MediaDTO, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

	return NewRouter(Deps{
		Config:          cfg,
		AuthService:     stubAuthService{},
		CategoryService: stubCategoryService{},
		ProductService:  stubProductService{},
		MediaService:    stubMediaService{},
	})
}

func mintToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Catalog-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/categories",
		"/api/v1/products",
		"/api/v1/products/" + uuid.NewString() + "/media",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 on %s got %d", path, resp.Code)
		}
	}
}

func TestRouterAllowsAuthenticatedRequests(t *testing.T) {
	router := newTestRouter(t)
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	token := mintToken(t, cfg, enums.UserRoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterDeleteRequiresAdminRole(t *testing.T) {
	router := newTestRouter(t)
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestRouterMediaValidateEndpoint(t *testing.T) {
	router := newTestRouter(t)
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

	body := `{"files":[{"name":"photo.jpg","size_bytes":1024},{"name":"notes.txt","size_bytes":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/validate", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleStaff))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
