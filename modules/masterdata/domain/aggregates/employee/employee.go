package employee

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Employee carries a year-prefixed badge number (e.g. 260001): the sequence
// restarts each calendar year under the new two-digit prefix.
type Employee struct {
	id        uuid.UUID
	code      string
	firstName string
	lastName  string
	hiredAt   time.Time
	createdAt time.Time
	updatedAt time.Time
}

type Option func(*Employee)

func WithID(id uuid.UUID) Option {
	return func(e *Employee) {
		e.id = id
	}
}

func WithCode(code string) Option {
	return func(e *Employee) {
		e.code = code
	}
}

func WithHiredAt(hiredAt time.Time) Option {
	return func(e *Employee) {
		e.hiredAt = hiredAt
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(e *Employee) {
		e.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(e *Employee) {
		e.updatedAt = updatedAt
	}
}

func New(firstName, lastName string, opts ...Option) *Employee {
	e := &Employee{
		id:        uuid.New(),
		firstName: firstName,
		lastName:  lastName,
		hiredAt:   time.Now(),
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Employee) ID() uuid.UUID {
	return e.id
}

func (e *Employee) Code() string {
	return e.code
}

func (e *Employee) FirstName() string {
	return e.firstName
}

func (e *Employee) LastName() string {
	return e.lastName
}

func (e *Employee) HiredAt() time.Time {
	return e.hiredAt
}

func (e *Employee) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Employee) UpdatedAt() time.Time {
	return e.updatedAt
}

func (e *Employee) SetName(firstName, lastName string) {
	e.firstName = firstName
	e.lastName = lastName
	e.updatedAt = time.Now()
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context) ([]*Employee, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	Create(ctx context.Context, e *Employee) (*Employee, error)
	Update(ctx context.Context, e *Employee) (*Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
