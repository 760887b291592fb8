package employee

import (
	"context"

	"github.com/google/uuid"

	"github.com/veltapack/masterdata/pkg/composables"
)

type CreatedEvent struct {
	TenantID uuid.UUID
	Result   *Employee
}

type DeletedEvent struct {
	TenantID uuid.UUID
	Result   *Employee
}

func NewCreatedEvent(ctx context.Context, result *Employee) (*CreatedEvent, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return &CreatedEvent{TenantID: tenantID, Result: result}, nil
}

func NewDeletedEvent(ctx context.Context, result *Employee) (*DeletedEvent, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return &DeletedEvent{TenantID: tenantID, Result: result}, nil
}
