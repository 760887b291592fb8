package dtos

import "time"

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

type MaterialResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	UnitCost  string    `json:"unitCost"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SaveMaterialRequest struct {
	Name     string `json:"name"`
	Unit     string `json:"unit,omitempty"`
	UnitCost string `json:"unitCost,omitempty"`
	// Optional. Empty means a code is allocated on create.
	Code string `json:"code,omitempty"`
}

type DepartmentResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SaveDepartmentRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"`
	Code     string  `json:"code,omitempty"`
}

type EmployeeResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	HiredAt   time.Time `json:"hiredAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SaveEmployeeRequest struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	HiredAt   *time.Time `json:"hiredAt,omitempty"`
	Code      string     `json:"code,omitempty"`
}
