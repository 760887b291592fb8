package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/material"
	"github.com/veltapack/masterdata/modules/masterdata/infrastructure/persistence"
	"github.com/veltapack/masterdata/modules/masterdata/presentation/controllers/dtos"
	"github.com/veltapack/masterdata/modules/masterdata/services"
)

type MaterialsController struct {
	service *services.MaterialService
	guard   mux.MiddlewareFunc
}

func NewMaterialsController(service *services.MaterialService, guard mux.MiddlewareFunc) *MaterialsController {
	return &MaterialsController{service: service, guard: guard}
}

func (c *MaterialsController) Key() string {
	return "/api/materials"
}

func (c *MaterialsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.Key()).Subrouter()
	router.Use(c.guard)

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func materialToResponse(m *material.Material) *dtos.MaterialResponse {
	return &dtos.MaterialResponse{
		ID:        m.ID().String(),
		Code:      m.Code(),
		Name:      m.Name(),
		Unit:      m.Unit(),
		UnitCost:  m.UnitCost().String(),
		CreatedAt: m.CreatedAt(),
		UpdatedAt: m.UpdatedAt(),
	}
}

func (c *MaterialsController) List(w http.ResponseWriter, r *http.Request) {
	entities, err := c.service.GetAll(r.Context())
	if err != nil {
		respondError(w, err, nil)
		return
	}
	out := make([]*dtos.MaterialResponse, 0, len(entities))
	for _, m := range entities {
		out = append(out, materialToResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *MaterialsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed material id")
		return
	}
	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrMaterialNotFound)
		return
	}
	writeJSON(w, http.StatusOK, materialToResponse(entity))
}

func (c *MaterialsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dtos.SaveMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "name is required")
		return
	}

	opts := []material.Option{material.WithCode(req.Code)}
	if req.Unit != "" {
		opts = append(opts, material.WithUnit(req.Unit))
	}
	if req.UnitCost != "" {
		cost, err := decimal.NewFromString(req.UnitCost)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed unit cost")
			return
		}
		opts = append(opts, material.WithUnitCost(cost))
	}

	created, err := c.service.Create(r.Context(), material.New(req.Name, opts...))
	if err != nil {
		respondError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, materialToResponse(created))
}

func (c *MaterialsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed material id")
		return
	}
	var req dtos.SaveMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrMaterialNotFound)
		return
	}
	if req.Name != "" {
		entity.SetName(req.Name)
	}
	if req.Unit != "" {
		entity.SetUnit(req.Unit)
	}
	if req.UnitCost != "" {
		cost, err := decimal.NewFromString(req.UnitCost)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed unit cost")
			return
		}
		entity.SetUnitCost(cost)
	}

	updated, err := c.service.Update(r.Context(), entity)
	if err != nil {
		respondError(w, err, persistence.ErrMaterialNotFound)
		return
	}
	writeJSON(w, http.StatusOK, materialToResponse(updated))
}

func (c *MaterialsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed material id")
		return
	}
	entity, err := c.service.Delete(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrMaterialNotFound)
		return
	}
	writeJSON(w, http.StatusOK, materialToResponse(entity))
}
