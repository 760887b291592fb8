package material

import (
	"context"

	"github.com/google/uuid"

	"github.com/veltapack/masterdata/pkg/composables"
)

type CreatedEvent struct {
	TenantID uuid.UUID
	Result   *Material
}

type UpdatedEvent struct {
	TenantID uuid.UUID
	Result   *Material
}

type DeletedEvent struct {
	TenantID uuid.UUID
	Result   *Material
}

func NewCreatedEvent(ctx context.Context, result *Material) (*CreatedEvent, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return &CreatedEvent{TenantID: tenantID, Result: result}, nil
}

func NewUpdatedEvent(ctx context.Context, result *Material) (*UpdatedEvent, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return &UpdatedEvent{TenantID: tenantID, Result: result}, nil
}

func NewDeletedEvent(ctx context.Context, result *Material) (*DeletedEvent, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return &DeletedEvent{TenantID: tenantID, Result: result}, nil
}
