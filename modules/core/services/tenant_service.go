package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapack/masterdata/modules/core/domain/entities/tenant"
	mdpersistence "github.com/veltapack/masterdata/modules/masterdata/infrastructure/persistence"
	"github.com/veltapack/masterdata/pkg/composables"
)

// TenantService resolves tenants and provisions their partitions. Registry
// operations are explicitly tenant-agnostic: they are the one place allowed
// to run without a bound partition.
type TenantService struct {
	repo tenant.Repository
	pool *pgxpool.Pool
}

func NewTenantService(repo tenant.Repository, pool *pgxpool.Pool) *TenantService {
	return &TenantService{repo: repo, pool: pool}
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TenantService) GetByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	return s.repo.GetByDomain(ctx, strings.ToLower(strings.TrimSpace(domain)))
}

func (s *TenantService) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return s.repo.List(ctx)
}

// Provision registers a tenant and creates its partition with the full
// master-data table set. The registry row and the schema are created
// together; a failure in either leaves no half-provisioned tenant row.
func (s *TenantService) Provision(ctx context.Context, name, domain, schema string) (*tenant.Tenant, error) {
	if !composables.ValidSchemaName(schema) {
		return nil, fmt.Errorf("%w: invalid schema name %q", composables.ErrPartitionBind, schema)
	}

	entity := tenant.New(
		name,
		tenant.WithDomain(domain),
		tenant.WithSchema(schema),
	)

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*tenant.Tenant, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return nil, err
	}

	if err := mdpersistence.ProvisionPartition(ctx, s.pool, schema); err != nil {
		// roll the registry entry back so re-provisioning can be retried
		if dErr := composables.InTx(ctx, func(txCtx context.Context) error {
			return s.repo.Delete(txCtx, created.ID())
		}); dErr != nil {
			composables.UseLogger(ctx).WithError(dErr).Error("failed to remove tenant after partition provisioning failure")
		}
		return nil, err
	}
	return created, nil
}

func (s *TenantService) Deactivate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (*tenant.Tenant, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		entity.SetIsActive(false)
		return s.repo.Update(txCtx, entity)
	})
}
