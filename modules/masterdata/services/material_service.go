package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/material"
	"github.com/veltapack/masterdata/pkg/composables"
	"github.com/veltapack/masterdata/pkg/eventbus"
)

type MaterialService struct {
	repo      material.Repository
	publisher eventbus.EventBus
}

func NewMaterialService(repo material.Repository, publisher eventbus.EventBus) *MaterialService {
	return &MaterialService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *MaterialService) Count(ctx context.Context) (int64, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (int64, error) {
		return s.repo.Count(txCtx)
	})
}

func (s *MaterialService) GetAll(ctx context.Context) ([]*material.Material, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) ([]*material.Material, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *MaterialService) GetByID(ctx context.Context, id uuid.UUID) (*material.Material, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*material.Material, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *MaterialService) GetByCode(ctx context.Context, code string) (*material.Material, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*material.Material, error) {
		return s.repo.GetByCode(txCtx, code)
	})
}

func (s *MaterialService) Create(ctx context.Context, entity *material.Material) (*material.Material, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*material.Material, error) {
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		ev, err := material.NewCreatedEvent(txCtx, created)
		if err != nil {
			return nil, err
		}
		s.publisher.Publish(ev)
		return created, nil
	})
}

func (s *MaterialService) Update(ctx context.Context, entity *material.Material) (*material.Material, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*material.Material, error) {
		updated, err := s.repo.Update(txCtx, entity)
		if err != nil {
			return nil, err
		}
		ev, err := material.NewUpdatedEvent(txCtx, updated)
		if err != nil {
			return nil, err
		}
		s.publisher.Publish(ev)
		return updated, nil
	})
}

func (s *MaterialService) Delete(ctx context.Context, id uuid.UUID) (*material.Material, error) {
	return composables.InPartitionResult(ctx, func(txCtx context.Context) (*material.Material, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return nil, err
		}
		ev, err := material.NewDeletedEvent(txCtx, entity)
		if err != nil {
			return nil, err
		}
		s.publisher.Publish(ev)
		return entity, nil
	})
}
