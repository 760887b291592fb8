package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltapack/masterdata/modules/masterdata/domain/aggregates/material"
	"github.com/veltapack/masterdata/modules/masterdata/services"
	"github.com/veltapack/masterdata/pkg/composables"
	"github.com/veltapack/masterdata/pkg/eventbus"
	"github.com/veltapack/masterdata/pkg/logging"
)

// stubTx satisfies pgx.Tx so services can run against an in-memory repository
// without a database. InPartition treats a present transaction as an already
// bound partition.
type stubTx struct{}

func (stubTx) Begin(context.Context) (pgx.Tx, error) { return stubTx{}, nil }
func (stubTx) Commit(context.Context) error          { return nil }
func (stubTx) Rollback(context.Context) error        { return nil }
func (stubTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (stubTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (stubTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (stubTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (stubTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (stubTx) Conn() *pgx.Conn                                         { return nil }

type fakeMaterialRepository struct {
	byID map[uuid.UUID]*material.Material
	seq  int
}

func newFakeMaterialRepository() *fakeMaterialRepository {
	return &fakeMaterialRepository{byID: map[uuid.UUID]*material.Material{}}
}

func (r *fakeMaterialRepository) Count(context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeMaterialRepository) GetAll(context.Context) ([]*material.Material, error) {
	out := make([]*material.Material, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMaterialRepository) GetByID(_ context.Context, id uuid.UUID) (*material.Material, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return m, nil
}

func (r *fakeMaterialRepository) GetByCode(_ context.Context, code string) (*material.Material, error) {
	for _, m := range r.byID {
		if m.Code() == code {
			return m, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeMaterialRepository) Create(_ context.Context, m *material.Material) (*material.Material, error) {
	r.seq++
	created := material.New(
		m.Name(),
		material.WithID(m.ID()),
		material.WithCode(m.Code()),
		material.WithUnit(m.Unit()),
		material.WithUnitCost(m.UnitCost()),
	)
	if created.Code() == "" {
		code := "MT0000000" + string(rune('0'+r.seq))
		created = material.New(
			m.Name(),
			material.WithID(m.ID()),
			material.WithCode(code),
			material.WithUnit(m.Unit()),
			material.WithUnitCost(m.UnitCost()),
		)
	}
	r.byID[created.ID()] = created
	return created, nil
}

func (r *fakeMaterialRepository) Update(_ context.Context, m *material.Material) (*material.Material, error) {
	if _, ok := r.byID[m.ID()]; !ok {
		return nil, pgx.ErrNoRows
	}
	r.byID[m.ID()] = m
	return m, nil
}

func (r *fakeMaterialRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func testContext() context.Context {
	ctx := context.Background()
	ctx = composables.WithTx(ctx, stubTx{})
	ctx = composables.WithTenant(ctx, &composables.Tenant{
		ID:     uuid.New(),
		Name:   "acme-packaging",
		Schema: "tenant_acme",
	})
	return ctx
}

func TestMaterialService_CreatePublishesEvent(t *testing.T) {
	repo := newFakeMaterialRepository()
	bus := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	svc := services.NewMaterialService(repo, bus)

	var published *material.CreatedEvent
	bus.Subscribe(func(ev *material.CreatedEvent) {
		published = ev
	})

	ctx := testContext()
	created, err := svc.Create(ctx, material.New("kraft paper"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.Code())

	require.NotNil(t, published, "created event must be published")
	assert.Equal(t, created.ID(), published.Result.ID())

	tenant, err := composables.UseTenant(ctx)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, published.TenantID)
}

func TestMaterialService_CreateWithoutTenant(t *testing.T) {
	repo := newFakeMaterialRepository()
	bus := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	svc := services.NewMaterialService(repo, bus)

	_, err := svc.Create(context.Background(), material.New("kraft paper"))
	require.ErrorIs(t, err, composables.ErrNoTenant)
}

func TestMaterialService_DeleteReturnsEntity(t *testing.T) {
	repo := newFakeMaterialRepository()
	bus := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	svc := services.NewMaterialService(repo, bus)

	ctx := testContext()
	created, err := svc.Create(ctx, material.New("uv ink"))
	require.NoError(t, err)

	var deleted *material.DeletedEvent
	bus.Subscribe(func(ev *material.DeletedEvent) {
		deleted = ev
	})

	entity, err := svc.Delete(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), entity.ID())
	require.NotNil(t, deleted)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
