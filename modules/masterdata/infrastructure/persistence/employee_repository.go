package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/employee"
	"github.com/veltapack/masterdata/modules/masterdata/domain/codespec"
	"github.com/veltapack/masterdata/modules/masterdata/infrastructure/persistence/models"
	"github.com/veltapack/masterdata/pkg/composables"
)

var ErrEmployeeNotFound = fmt.Errorf("employee not found")

const employeeFindQuery = `SELECT id::text, code, first_name, last_name, hired_at, created_at, updated_at FROM employees`

type EmployeeRepository struct {
	allocator *Allocator
	codes     CodeStore
}

func NewEmployeeRepository(allocator *Allocator) employee.Repository {
	return &EmployeeRepository{
		allocator: allocator,
		codes:     NewCodeStore("employees"),
	}
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count employees")
	}
	return count, nil
}

func (r *EmployeeRepository) GetAll(ctx context.Context) ([]*employee.Employee, error) {
	return r.queryEmployees(ctx, employeeFindQuery+" ORDER BY code")
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	out, err := r.queryEmployees(ctx, employeeFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmployeeNotFound
	}
	return out[0], nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	if e.Code() == "" {
		spec := codespec.MustGet(codespec.Employee)
		_, err := r.allocator.Allocate(ctx, spec, r.codes, func(txCtx context.Context, code string) error {
			return r.insert(txCtx, e, code)
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := r.insert(ctx, e, e.Code()); err != nil {
			return nil, mapDuplicate(err)
		}
	}
	return r.GetByID(ctx, e.ID())
}

func (r *EmployeeRepository) insert(ctx context.Context, e *employee.Employee, code string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO employees (id, code, first_name, last_name, hired_at, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID().String(),
		code,
		e.FirstName(),
		e.LastName(),
		e.HiredAt(),
		e.CreatedAt(),
		e.UpdatedAt(),
	)
	return err
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE employees SET first_name = $1, last_name = $2, updated_at = $3 WHERE id = $4`,
		e.FirstName(),
		e.LastName(),
		e.UpdatedAt(),
		e.ID().String(),
	)
	if err != nil {
		return nil, mapDuplicate(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrEmployeeNotFound
	}
	return r.GetByID(ctx, e.ID())
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]*employee.Employee, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var employees []*employee.Employee
	for rows.Next() {
		var row models.Employee
		if err := rows.Scan(
			&row.ID,
			&row.Code,
			&row.FirstName,
			&row.LastName,
			&row.HiredAt,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan employee row")
		}
		entity, err := toDomainEmployee(&row)
		if err != nil {
			return nil, err
		}
		employees = append(employees, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return employees, nil
}

func toDomainEmployee(row *models.Employee) (*employee.Employee, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid employee id")
	}
	return employee.New(
		row.FirstName,
		row.LastName,
		employee.WithID(id),
		employee.WithCode(row.Code),
		employee.WithHiredAt(row.HiredAt),
		employee.WithCreatedAt(row.CreatedAt),
		employee.WithUpdatedAt(row.UpdatedAt),
	), nil
}
