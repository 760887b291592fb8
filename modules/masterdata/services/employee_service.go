package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/employee"
	"github.com/veltapack/masterdata/pkg/composables"
	"github.com/veltapack/masterdata/pkg/eventbus"
)

type EmployeeService struct {
	repo      employee.Repository
	publisher eventbus.EventBus
}

func NewEmployeeService(repo employee.Repository, publisher eventbus.EventBus) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *EmployeeService) Count(ctx context.Context) (int64, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *EmployeeService) GetAll(ctx context.Context) ([]*employee.Employee, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) ([]*employee.Employee, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *EmployeeService) Create(ctx context.Context, entity *employee.Employee) (*employee.Employee, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		ev, err := employee.NewCreatedEvent(txCtx, created)
		if err != nil {
			return nil, err
		}
		s.publisher.Publish(ev)
		return created, nil
	})
}

func (s *EmployeeService) Update(ctx context.Context, entity *employee.Employee) (*employee.Employee, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		return s.repo.Update(txCtx, entity)
	})
}

func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*employee.Employee, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return nil, err
		}
		ev, err := employee.NewDeletedEvent(txCtx, entity)
		if err != nil {
			return nil, err
		}
		s.publisher.Publish(ev)
		return entity, nil
	})
}
