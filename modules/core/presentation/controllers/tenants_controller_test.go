package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltapack/masterdata/modules/core/domain/entities/tenant"
	"github.com/veltapack/masterdata/modules/core/infrastructure/persistence"
	"github.com/veltapack/masterdata/modules/core/presentation/controllers"
	"github.com/veltapack/masterdata/modules/core/presentation/controllers/dtos"
	"github.com/veltapack/masterdata/modules/core/services"
)

type fakeTenantRepository struct {
	byID map[uuid.UUID]*tenant.Tenant
}

func newFakeTenantRepository(tenants ...*tenant.Tenant) *fakeTenantRepository {
	r := &fakeTenantRepository{byID: map[uuid.UUID]*tenant.Tenant{}}
	for _, t := range tenants {
		r.byID[t.ID()] = t
	}
	return r
}

func (r *fakeTenantRepository) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, persistence.ErrTenantNotFound
	}
	return t, nil
}

func (r *fakeTenantRepository) GetByDomain(context.Context, string) (*tenant.Tenant, error) {
	return nil, persistence.ErrTenantNotFound
}

func (r *fakeTenantRepository) List(context.Context) ([]*tenant.Tenant, error) {
	out := make([]*tenant.Tenant, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTenantRepository) Create(_ context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	r.byID[t.ID()] = t
	return t, nil
}

func (r *fakeTenantRepository) Update(_ context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	r.byID[t.ID()] = t
	return t, nil
}

func (r *fakeTenantRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func newTenantRouter(repo *fakeTenantRepository) *mux.Router {
	router := mux.NewRouter()
	controllers.NewTenantsController(services.NewTenantService(repo, nil)).Register(router)
	return router
}

func TestTenantsController_Get(t *testing.T) {
	entity := tenant.New("Acme", tenant.WithDomain("acme.example.com"), tenant.WithSchema("tenant_acme"))
	router := newTenantRouter(newFakeTenantRepository(entity))

	req := httptest.NewRequest(http.MethodGet, "/api/tenants/"+entity.ID().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dtos.TenantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, entity.ID().String(), resp.ID)
	assert.Equal(t, "tenant_acme", resp.Schema)
	assert.True(t, resp.IsActive)
}

func TestTenantsController_GetNotFound(t *testing.T) {
	router := newTenantRouter(newFakeTenantRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/tenants/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp dtos.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestTenantsController_GetMalformedID(t *testing.T) {
	router := newTenantRouter(newFakeTenantRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/tenants/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTenantsController_List(t *testing.T) {
	router := newTenantRouter(newFakeTenantRepository(
		tenant.New("Acme", tenant.WithDomain("acme.example.com"), tenant.WithSchema("tenant_acme")),
		tenant.New("Globex", tenant.WithDomain("globex.example.com"), tenant.WithSchema("tenant_globex")),
	))

	req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []*dtos.TenantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
