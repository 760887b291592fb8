package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/veltapack/masterdata/modules/core/domain/entities/tenant"
	"github.com/veltapack/masterdata/modules/core/infrastructure/persistence"
	"github.com/veltapack/masterdata/modules/core/presentation/controllers/dtos"
	"github.com/veltapack/masterdata/modules/core/services"
	"github.com/veltapack/masterdata/pkg/composables"
)

// TenantsController is the control-plane surface: it manages the tenant
// registry itself and therefore runs without the tenant guard.
type TenantsController struct {
	service *services.TenantService
}

func NewTenantsController(service *services.TenantService) *TenantsController {
	return &TenantsController{service: service}
}

func (c *TenantsController) Key() string {
	return "/api/tenants"
}

func (c *TenantsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.Key()).Subrouter()

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Provision).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/deactivate", c.Deactivate).Methods(http.MethodPost)
}

func tenantToResponse(t *tenant.Tenant) *dtos.TenantResponse {
	return &dtos.TenantResponse{
		ID:        t.ID().String(),
		Name:      t.Name(),
		Domain:    t.Domain(),
		Schema:    t.Schema(),
		IsActive:  t.IsActive(),
		CreatedAt: t.CreatedAt(),
	}
}

func (c *TenantsController) List(w http.ResponseWriter, r *http.Request) {
	entities, err := c.service.List(r.Context())
	if err != nil {
		respondError(w, err, nil)
		return
	}
	out := make([]*dtos.TenantResponse, 0, len(entities))
	for _, t := range entities {
		out = append(out, tenantToResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *TenantsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed tenant id")
		return
	}
	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrTenantNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tenantToResponse(entity))
}

func (c *TenantsController) Provision(w http.ResponseWriter, r *http.Request) {
	var req dtos.ProvisionTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Name == "" || req.Domain == "" || req.Schema == "" {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "name, domain and schema are required")
		return
	}

	created, err := c.service.Provision(r.Context(), req.Name, req.Domain, req.Schema)
	if err != nil {
		// an unusable schema name is a caller mistake, not a bind failure
		if errors.Is(err, composables.ErrPartitionBind) {
			writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid schema name")
			return
		}
		respondError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, tenantToResponse(created))
}

func (c *TenantsController) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed tenant id")
		return
	}
	entity, err := c.service.Deactivate(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrTenantNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tenantToResponse(entity))
}
