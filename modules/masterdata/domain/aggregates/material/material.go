package material

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material is a purchasable raw material (paper, board, ink). Its code is
// allocated on create and never reassigned afterwards.
type Material struct {
	id        uuid.UUID
	code      string
	name      string
	unit      string
	unitCost  decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Material)

func WithID(id uuid.UUID) Option {
	return func(m *Material) {
		m.id = id
	}
}

func WithCode(code string) Option {
	return func(m *Material) {
		m.code = code
	}
}

func WithUnit(unit string) Option {
	return func(m *Material) {
		m.unit = unit
	}
}

func WithUnitCost(cost decimal.Decimal) Option {
	return func(m *Material) {
		m.unitCost = cost
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(m *Material) {
		m.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(m *Material) {
		m.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Material {
	m := &Material{
		id:        uuid.New(),
		name:      name,
		unit:      "kg",
		unitCost:  decimal.Zero,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Material) ID() uuid.UUID {
	return m.id
}

func (m *Material) Code() string {
	return m.code
}

func (m *Material) Name() string {
	return m.name
}

func (m *Material) Unit() string {
	return m.unit
}

func (m *Material) UnitCost() decimal.Decimal {
	return m.unitCost
}

func (m *Material) CreatedAt() time.Time {
	return m.createdAt
}

func (m *Material) UpdatedAt() time.Time {
	return m.updatedAt
}

func (m *Material) SetName(name string) {
	m.name = name
	m.updatedAt = time.Now()
}

func (m *Material) SetUnit(unit string) {
	m.unit = unit
	m.updatedAt = time.Now()
}

func (m *Material) SetUnitCost(cost decimal.Decimal) {
	m.unitCost = cost
	m.updatedAt = time.Now()
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]*Material, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Material, error)
	GetByCode(ctx context.Context, code string) (*Material, error)
	Create(ctx context.Context, m *Material) (*Material, error)
	Update(ctx context.Context, m *Material) (*Material, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
