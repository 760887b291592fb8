package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/employee"
	"github.com/veltapack/masterdata/modules/masterdata/infrastructure/persistence"
	"github.com/veltapack/masterdata/modules/masterdata/presentation/controllers/dtos"
	"github.com/veltapack/masterdata/modules/masterdata/services"
)

type EmployeesController struct {
	service *services.EmployeeService
	guard   mux.MiddlewareFunc
}

func NewEmployeesController(service *services.EmployeeService, guard mux.MiddlewareFunc) *EmployeesController {
	return &EmployeesController{service: service, guard: guard}
}

func (c *EmployeesController) Key() string {
	return "/api/employees"
}

func (c *EmployeesController) Register(r *mux.Router) {
	router := r.PathPrefix(c.Key()).Subrouter()
	router.Use(c.guard)

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func employeeToResponse(e *employee.Employee) *dtos.EmployeeResponse {
	return &dtos.EmployeeResponse{
		ID:        e.ID().String(),
		Code:      e.Code(),
		FirstName: e.FirstName(),
		LastName:  e.LastName(),
		HiredAt:   e.HiredAt(),
		CreatedAt: e.CreatedAt(),
		UpdatedAt: e.UpdatedAt(),
	}
}

func (c *EmployeesController) List(w http.ResponseWriter, r *http.Request) {
	entities, err := c.service.GetAll(r.Context())
	if err != nil {
		respondError(w, err, nil)
		return
	}
	out := make([]*dtos.EmployeeResponse, 0, len(entities))
	for _, e := range entities {
		out = append(out, employeeToResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *EmployeesController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed employee id")
		return
	}
	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrEmployeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, employeeToResponse(entity))
}

func (c *EmployeesController) Create(w http.ResponseWriter, r *http.Request) {
	var req dtos.SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "first and last name are required")
		return
	}

	opts := []employee.Option{employee.WithCode(req.Code)}
	if req.HiredAt != nil {
		opts = append(opts, employee.WithHiredAt(*req.HiredAt))
	}

	created, err := c.service.Create(r.Context(), employee.New(req.FirstName, req.LastName, opts...))
	if err != nil {
		respondError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, employeeToResponse(created))
}

func (c *EmployeesController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed employee id")
		return
	}
	var req dtos.SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrEmployeeNotFound)
		return
	}
	firstName, lastName := entity.FirstName(), entity.LastName()
	if req.FirstName != "" {
		firstName = req.FirstName
	}
	if req.LastName != "" {
		lastName = req.LastName
	}
	entity.SetName(firstName, lastName)

	updated, err := c.service.Update(r.Context(), entity)
	if err != nil {
		respondError(w, err, persistence.ErrEmployeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, employeeToResponse(updated))
}

func (c *EmployeesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed employee id")
		return
	}
	entity, err := c.service.Delete(r.Context(), id)
	if err != nil {
		respondError(w, err, persistence.ErrEmployeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, employeeToResponse(entity))
}
