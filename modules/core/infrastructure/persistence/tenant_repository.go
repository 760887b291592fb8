package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/veltapack/masterdata/modules/core/domain/entities/tenant"
	"github.com/veltapack/masterdata/modules/core/infrastructure/persistence/models"
	"github.com/veltapack/masterdata/pkg/composables"
)

var ErrTenantNotFound = fmt.Errorf("tenant not found")

// The registry is always addressed through the control schema explicitly, so
// a bound partition can never shadow it.
const tenantFindQuery = `SELECT id::text, name, domain, schema_name, is_active, created_at, updated_at FROM public.tenants`

type TenantRepository struct{}

func NewTenantRepository() tenant.Repository {
	return &TenantRepository{}
}

func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	tenants, err := r.queryTenants(ctx, tenantFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, ErrTenantNotFound
	}
	return tenants[0], nil
}

func (r *TenantRepository) GetByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	tenants, err := r.queryTenants(ctx, tenantFindQuery+" WHERE domain = $1", domain)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, ErrTenantNotFound
	}
	return tenants[0], nil
}

func (r *TenantRepository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	return r.queryTenants(ctx, tenantFindQuery+" ORDER BY name")
}

func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	domain := strings.ToLower(strings.TrimSpace(t.Domain()))
	query := `
		INSERT INTO public.tenants (id, name, domain, schema_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var domainValue sql.NullString
	if domain != "" {
		domainValue = sql.NullString{String: domain, Valid: true}
	}

	if _, err := tx.Exec(
		ctx,
		query,
		t.ID().String(),
		t.Name(),
		domainValue,
		t.Schema(),
		t.IsActive(),
		t.CreatedAt(),
		t.UpdatedAt(),
	); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, t.ID())
}

func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	domain := strings.ToLower(strings.TrimSpace(t.Domain()))
	query := `
		UPDATE public.tenants
		SET name = $1, domain = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var domainValue sql.NullString
	if domain != "" {
		domainValue = sql.NullString{String: domain, Valid: true}
	}

	tag, err := tx.Exec(
		ctx,
		query,
		t.Name(),
		domainValue,
		t.IsActive(),
		t.UpdatedAt(),
		t.ID().String(),
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTenantNotFound
	}
	return r.GetByID(ctx, t.ID())
}

func (r *TenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM public.tenants WHERE id = $1`, id.String())
	return err
}

func (r *TenantRepository) queryTenants(ctx context.Context, query string, args ...interface{}) ([]*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		var row models.Tenant
		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.Domain,
			&row.Schema,
			&row.IsActive,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan tenant row")
		}
		entity, err := toDomainTenant(&row)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return tenants, nil
}

func toDomainTenant(row *models.Tenant) (*tenant.Tenant, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid tenant id")
	}
	return tenant.New(
		row.Name,
		tenant.WithID(id),
		tenant.WithDomain(row.Domain.String),
		tenant.WithSchema(row.Schema),
		tenant.WithIsActive(row.IsActive),
		tenant.WithCreatedAt(row.CreatedAt),
		tenant.WithUpdatedAt(row.UpdatedAt),
	), nil
}
