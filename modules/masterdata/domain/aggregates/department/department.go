package department

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Department struct {
	id        uuid.UUID
	code      string
	name      string
	parentID  *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Department)

func WithID(id uuid.UUID) Option {
	return func(d *Department) {
		d.id = id
	}
}

func WithCode(code string) Option {
	return func(d *Department) {
		d.code = code
	}
}

func WithParentID(parentID *uuid.UUID) Option {
	return func(d *Department) {
		d.parentID = parentID
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(d *Department) {
		d.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(d *Department) {
		d.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) *Department {
	d := &Department{
		id:        uuid.New(),
		name:      name,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Department) ID() uuid.UUID {
	return d.id
}

func (d *Department) Code() string {
	return d.code
}

func (d *Department) Name() string {
	return d.name
}

func (d *Department) ParentID() *uuid.UUID {
	return d.parentID
}

func (d *Department) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Department) UpdatedAt() time.Time {
	return d.updatedAt
}

func (d *Department) SetName(name string) {
	d.name = name
	d.updatedAt = time.Now()
}

func (d *Department) SetParentID(parentID *uuid.UUID) {
	d.parentID = parentID
	d.updatedAt = time.Now()
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]*Department, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	Create(ctx context.Context, d *Department) (*Department, error)
	Update(ctx context.Context, d *Department) (*Department, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
