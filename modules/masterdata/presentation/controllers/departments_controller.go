package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/department"
	"github.com/veltapack/masterdata/modules/masterdata/infrastructure/persistence"
	"github.com/veltapack/masterdata/modules/masterdata/presentation/controllers/dtos"
	"github.com/veltapack/masterdata/modules/masterdata/services"
)

type DepartmentsController struct {
	service *services.DepartmentService
	guard   mux.MiddlewareFunc
}

func NewDepartmentsController(service *services.DepartmentService, guard mux.MiddlewareFunc) *DepartmentsController {
	return &DepartmentsController{service: service, guard: guard}
}

func (c *DepartmentsController) Key() string {
	return "/api/departments"
}

func (c *DepartmentsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.Key()).Subrouter()
	router.Use(c.guard)

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func departmentToResponse(d *department.Department) *dtos.DepartmentResponse {
	resp := &dtos.DepartmentResponse{
		ID:        d.ID().String(),
		Code:      d.Code(),
		Name:      d.Name(),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
	if parentID := d.ParentID(); parentID != nil {
		s := parentID.String()
		resp.ParentID = &s
	}
	return resp
}

func parseParentID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *DepartmentsController) List(w http.ResponseWriter, r *http.Request) {
	entities, err := c.service.GetAll(r.Context())
	if err != nil {
		respondError(w, err, nil)
		return
	}
	out := make([]*dtos.DepartmentResponse, 0, len(entities))
	for _, d := range entities {
		out = append(out, departmentToResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *DepartmentsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed department id")
		return
	}
	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrDepartmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, departmentToResponse(entity))
}

func (c *DepartmentsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dtos.SaveDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "name is required")
		return
	}
	parentID, err := parseParentID(req.ParentID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed parent id")
		return
	}

	entity := department.New(
		req.Name,
		department.WithCode(req.Code),
		department.WithParentID(parentID),
	)
	created, err := c.service.Create(r.Context(), entity)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, departmentToResponse(created))
}

func (c *DepartmentsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed department id")
		return
	}
	var req dtos.SaveDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrDepartmentNotFound)
		return
	}
	if req.Name != "" {
		entity.SetName(req.Name)
	}
	if req.ParentID != nil {
		parentID, err := parseParentID(req.ParentID)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed parent id")
			return
		}
		entity.SetParentID(parentID)
	}

	updated, err := c.service.Update(r.Context(), entity)
	if err != nil {
		respondError(w, err, persistence.ErrDepartmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, departmentToResponse(updated))
}

func (c *DepartmentsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed department id")
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		respondError(w, err, persistence.ErrDepartmentNotFound)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
