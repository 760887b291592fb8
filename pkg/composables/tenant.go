package composables

import (
	"context"

	"github.com/google/uuid"

	"github.com/veltapack/masterdata/pkg/constants"
	"github.com/veltapack/masterdata/pkg/serrors"
)

// ErrNoTenant aborts an operation before any I/O. There is deliberately no
// fallback to a shared schema: an unresolved tenant must never read or write
// another tenant's partition.
var ErrNoTenant = serrors.NewError(
	"TENANT_RESOLUTION_FAILED",
	"no tenant found in context",
	"Tenant.ResolutionFailed",
)

// Tenant is the per-request tenant context. Immutable once resolved; it is
// threaded by value through every downstream call instead of living in any
// ambient or global state.
type Tenant struct {
	ID     uuid.UUID
	Name   string
	Schema string
}

func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, constants.TenantKey, t)
}

func UseTenant(ctx context.Context) (*Tenant, error) {
	t, ok := ctx.Value(constants.TenantKey).(*Tenant)
	if !ok || t == nil || t.Schema == "" {
		return nil, ErrNoTenant
	}
	return t, nil
}

func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	t, err := UseTenant(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}
