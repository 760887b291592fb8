package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/material"
	"github.com/veltapack/masterdata/modules/masterdata/domain/codespec"
	"github.com/veltapack/masterdata/modules/masterdata/infrastructure/persistence/models"
	"github.com/veltapack/masterdata/pkg/composables"
)

var ErrMaterialNotFound = fmt.Errorf("material not found")

const (
	materialFindQuery = `SELECT id::text, code, name, unit, unit_cost::text, created_at, updated_at FROM materials`

	materialInsertQuery = `
		INSERT INTO materials (id, code, name, unit, unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
	`
)

type MaterialRepository struct {
	allocator *Allocator
	codes     CodeStore
}

func NewMaterialRepository(allocator *Allocator) material.Repository {
	return &MaterialRepository{
		allocator: allocator,
		codes:     NewCodeStore("materials"),
	}
}

func (r *MaterialRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM materials`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count materials")
	}
	return count, nil
}

func (r *MaterialRepository) GetAll(ctx context.Context) ([]*material.Material, error) {
	return r.queryMaterials(ctx, materialFindQuery+" ORDER BY code")
}

func (r *MaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*material.Material, error) {
	out, err := r.queryMaterials(ctx, materialFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrMaterialNotFound
	}
	return out[0], nil
}

func (r *MaterialRepository) GetByCode(ctx context.Context, code string) (*material.Material, error) {
	out, err := r.queryMaterials(ctx, materialFindQuery+" WHERE code = $1", code)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrMaterialNotFound
	}
	return out[0], nil
}

// Create persists the material, allocating its code when none was supplied.
// A caller-supplied code (legacy imports) is inserted as-is: a clash on it is
// a duplicate key, not an allocation conflict.
func (r *MaterialRepository) Create(ctx context.Context, m *material.Material) (*material.Material, error) {
	if m.Code() == "" {
		spec := codespec.MustGet(codespec.Material)
		_, err := r.allocator.Allocate(ctx, spec, r.codes, func(txCtx context.Context, code string) error {
			return r.insert(txCtx, m, code)
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := r.insert(ctx, m, m.Code()); err != nil {
			return nil, mapDuplicate(err)
		}
	}
	return r.GetByID(ctx, m.ID())
}

func (r *MaterialRepository) insert(ctx context.Context, m *material.Material, code string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		materialInsertQuery,
		m.ID().String(),
		code,
		m.Name(),
		m.Unit(),
		m.UnitCost().String(),
		m.CreatedAt(),
		m.UpdatedAt(),
	)
	return err
}

// Update never touches the code column: codes are immutable once assigned.
func (r *MaterialRepository) Update(ctx context.Context, m *material.Material) (*material.Material, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE materials
		SET name = $1, unit = $2, unit_cost = $3::numeric, updated_at = $4
		WHERE id = $5
	`
	tag, err := tx.Exec(
		ctx,
		query,
		m.Name(),
		m.Unit(),
		m.UnitCost().String(),
		m.UpdatedAt(),
		m.ID().String(),
	)
	if err != nil {
		return nil, mapDuplicate(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrMaterialNotFound
	}
	return r.GetByID(ctx, m.ID())
}

func (r *MaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

func (r *MaterialRepository) queryMaterials(ctx context.Context, query string, args ...interface{}) ([]*material.Material, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var materials []*material.Material
	for rows.Next() {
		var row models.Material
		if err := rows.Scan(
			&row.ID,
			&row.Code,
			&row.Name,
			&row.Unit,
			&row.UnitCost,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan material row")
		}
		entity, err := toDomainMaterial(&row)
		if err != nil {
			return nil, err
		}
		materials = append(materials, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return materials, nil
}

func toDomainMaterial(row *models.Material) (*material.Material, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid material id")
	}
	cost, err := decimal.NewFromString(row.UnitCost)
	if err != nil {
		return nil, errors.Wrap(err, "invalid material unit cost")
	}
	return material.New(
		row.Name,
		material.WithID(id),
		material.WithCode(row.Code),
		material.WithUnit(row.Unit),
		material.WithUnitCost(cost),
		material.WithCreatedAt(row.CreatedAt),
		material.WithUpdatedAt(row.UpdatedAt),
	), nil
}
