package dtos

import "time"

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	Schema    string    `json:"schema"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProvisionTenantRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Schema string `json:"schema"`
}
