package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltapack/masterdata/modules/core/domain/entities/tenant"
	"github.com/veltapack/masterdata/modules/core/services"
	"github.com/veltapack/masterdata/pkg/composables"
	"github.com/veltapack/masterdata/pkg/middleware"
)

type fakeTenantRepository struct {
	byID     map[uuid.UUID]*tenant.Tenant
	byDomain map[string]*tenant.Tenant
}

func newFakeTenantRepository(tenants ...*tenant.Tenant) *fakeTenantRepository {
	r := &fakeTenantRepository{
		byID:     map[uuid.UUID]*tenant.Tenant{},
		byDomain: map[string]*tenant.Tenant{},
	}
	for _, t := range tenants {
		r.byID[t.ID()] = t
		r.byDomain[t.Domain()] = t
	}
	return r
}

func (r *fakeTenantRepository) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, assert.AnError
	}
	return t, nil
}

func (r *fakeTenantRepository) GetByDomain(_ context.Context, domain string) (*tenant.Tenant, error) {
	t, ok := r.byDomain[domain]
	if !ok {
		return nil, assert.AnError
	}
	return t, nil
}

func (r *fakeTenantRepository) List(context.Context) ([]*tenant.Tenant, error) {
	return nil, nil
}

func (r *fakeTenantRepository) Create(_ context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	return t, nil
}

func (r *fakeTenantRepository) Update(_ context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	return t, nil
}

func (r *fakeTenantRepository) Delete(context.Context, uuid.UUID) error {
	return nil
}

func tenantEchoHandler(t *testing.T, want *tenant.Tenant) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved, err := composables.UseTenant(r.Context())
		require.NoError(t, err)
		assert.Equal(t, want.ID(), resolved.ID)
		assert.Equal(t, want.Schema(), resolved.Schema)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireTenant_FromHeader(t *testing.T) {
	active := tenant.New("Acme", tenant.WithDomain("acme.example.com"), tenant.WithSchema("tenant_acme"))
	svc := services.NewTenantService(newFakeTenantRepository(active), nil)

	handler := middleware.RequireTenant(svc)(tenantEchoHandler(t, active))

	req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
	req.Header.Set("X-Tenant-ID", active.ID().String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireTenant_FromHost(t *testing.T) {
	active := tenant.New("Acme", tenant.WithDomain("acme.example.com"), tenant.WithSchema("tenant_acme"))
	svc := services.NewTenantService(newFakeTenantRepository(active), nil)

	handler := middleware.RequireTenant(svc)(tenantEchoHandler(t, active))

	req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
	req.Host = "acme.example.com:8080"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireTenant_MalformedHeader(t *testing.T) {
	svc := services.NewTenantService(newFakeTenantRepository(), nil)

	called := false
	handler := middleware.RequireTenant(svc)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
	req.Header.Set("X-Tenant-ID", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestRequireTenant_UnknownTenant(t *testing.T) {
	svc := services.NewTenantService(newFakeTenantRepository(), nil)

	handler := middleware.RequireTenant(svc)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a resolved tenant")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireTenant_DeactivatedTenant(t *testing.T) {
	inactive := tenant.New(
		"Gone",
		tenant.WithDomain("gone.example.com"),
		tenant.WithSchema("tenant_gone"),
		tenant.WithIsActive(false),
	)
	svc := services.NewTenantService(newFakeTenantRepository(inactive), nil)

	handler := middleware.RequireTenant(svc)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for a deactivated tenant")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/materials", nil)
	req.Header.Set("X-Tenant-ID", inactive.ID().String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
