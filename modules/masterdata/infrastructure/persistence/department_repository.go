package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/department"
	"github.com/veltapack/masterdata/modules/masterdata/domain/codespec"
	"github.com/veltapack/masterdata/modules/masterdata/infrastructure/persistence/models"
	"github.com/veltapack/masterdata/pkg/composables"
)

var ErrDepartmentNotFound = fmt.Errorf("department not found")

const departmentFindQuery = `SELECT id::text, code, name, parent_id::text, created_at, updated_at FROM departments`

type DepartmentRepository struct {
	allocator *Allocator
	codes     CodeStore
}

func NewDepartmentRepository(allocator *Allocator) department.Repository {
	return &DepartmentRepository{
		allocator: allocator,
		codes:     NewCodeStore("departments"),
	}
}

func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count departments")
	}
	return count, nil
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*department.Department, error) {
	return r.queryDepartments(ctx, departmentFindQuery+" ORDER BY code")
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*department.Department, error) {
	out, err := r.queryDepartments(ctx, departmentFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrDepartmentNotFound
	}
	return out[0], nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) (*department.Department, error) {
	if d.Code() == "" {
		spec := codespec.MustGet(codespec.Department)
		_, err := r.allocator.Allocate(ctx, spec, r.codes, func(txCtx context.Context, code string) error {
			return r.insert(txCtx, d, code)
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := r.insert(ctx, d, d.Code()); err != nil {
			return nil, mapDuplicate(err)
		}
	}
	return r.GetByID(ctx, d.ID())
}

func (r *DepartmentRepository) insert(ctx context.Context, d *department.Department, code string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	var parentID any
	if d.ParentID() != nil {
		parentID = d.ParentID().String()
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO departments (id, code, name, parent_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID().String(),
		code,
		d.Name(),
		parentID,
		d.CreatedAt(),
		d.UpdatedAt(),
	)
	return err
}

func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) (*department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var parentID any
	if d.ParentID() != nil {
		parentID = d.ParentID().String()
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE departments SET name = $1, parent_id = $2, updated_at = $3 WHERE id = $4`,
		d.Name(),
		parentID,
		d.UpdatedAt(),
		d.ID().String(),
	)
	if err != nil {
		return nil, mapDuplicate(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrDepartmentNotFound
	}
	return r.GetByID(ctx, d.ID())
}

func (r *DepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) queryDepartments(ctx context.Context, query string, args ...interface{}) ([]*department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var departments []*department.Department
	for rows.Next() {
		var row models.Department
		if err := rows.Scan(
			&row.ID,
			&row.Code,
			&row.Name,
			&row.ParentID,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan department row")
		}
		entity, err := toDomainDepartment(&row)
		if err != nil {
			return nil, err
		}
		departments = append(departments, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return departments, nil
}

func toDomainDepartment(row *models.Department) (*department.Department, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid department id")
	}
	var parentID *uuid.UUID
	if row.ParentID.Valid {
		parsed, err := uuid.Parse(row.ParentID.String)
		if err != nil {
			return nil, errors.Wrap(err, "invalid department parent id")
		}
		parentID = &parsed
	}
	return department.New(
		row.Name,
		department.WithID(id),
		department.WithCode(row.Code),
		department.WithParentID(parentID),
		department.WithCreatedAt(row.CreatedAt),
		department.WithUpdatedAt(row.UpdatedAt),
	), nil
}
