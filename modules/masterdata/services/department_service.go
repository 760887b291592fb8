package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/department"
	"github.com/veltapack/masterdata/pkg/composables"
)

type DepartmentService struct {
	repo department.Repository
}

func NewDepartmentService(repo department.Repository) *DepartmentService {
	return &DepartmentService{repo: repo}
}

func (s *DepartmentService) Count(ctx context.Context) (int64, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *DepartmentService) GetAll(ctx context.Context) ([]*department.Department, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) ([]*department.Department, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *DepartmentService) GetByID(ctx context.Context, id uuid.UUID) (*department.Department, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*department.Department, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *DepartmentService) Create(ctx context.Context, entity *department.Department) (*department.Department, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*department.Department, error) {
		return s.repo.Create(txCtx, entity)
	})
}

func (s *DepartmentService) Update(ctx context.Context, entity *department.Department) (*department.Department, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*department.Department, error) {
		return s.repo.Update(txCtx, entity)
	})
}

func (s *DepartmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return composables.InPartition(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}
