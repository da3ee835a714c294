package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/marketplace/pkg/models"
	"github.com/example/marketplace/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSink struct {
	mu  sync.Mutex
	got []models.OrderEvent
}

func (c *captureSink) Publish(_ context.Context, ev models.OrderEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, ev)
	return nil
}

func (c *captureSink) types() []models.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.EventType
	for _, ev := range c.got {
		out = append(out, ev.Type)
	}
	return out
}

type failingDirectory struct{ err error }

func (f failingDirectory) CustomerNames(context.Context, []string) (map[string]models.CustomerName, error) {
	return nil, f.err
}

func (f failingDirectory) ProductNames(context.Context, []string) (map[string]string, error) {
	return nil, f.err
}

type countingDirectory struct {
	Directory
	mu    sync.Mutex
	calls int
}

func (c *countingDirectory) CustomerNames(ctx context.Context, ids []string) (map[string]models.CustomerName, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Directory.CustomerNames(ctx, ids)
}

type fixture struct {
	svc   *OrderService
	store *repository.MemoryStore
	dir   *repository.MemoryDirectory
	sink  *captureSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	dir := repository.NewMemoryDirectory()
	dir.AddUser(models.User{ID: "c1", FirstName: "Ada", LastName: "Lovelace"})
	dir.AddUser(models.User{ID: "c2", FirstName: "Alan", LastName: "Turing"})
	dir.AddProduct(models.Product{ID: "p1", Name: "Teapot", VendorID: "v1"})
	dir.AddProduct(models.Product{ID: "p2", Name: "Kettle", VendorID: "v2"})
	sink := &captureSink{}

	return &fixture{
		svc:   NewOrderService(store, dir, sink, zap.NewNop()),
		store: store,
		dir:   dir,
		sink:  sink,
	}
}

func sampleOrder(id string, code int64, customer string, items ...models.OrderItem) *models.Order {
	return &models.Order{
		ID:         id,
		OrderCode:  code,
		CustomerID: customer,
		Items:      items,
		Status:     models.StatusPending,
	}
}

func item(product, vendor string, qty int32) models.OrderItem {
	return models.OrderItem{ProductID: product, VendorID: vendor, Quantity: qty}
}

func (f *fixture) create(t *testing.T, o *models.Order) *models.Order {
	t.Helper()
	created, err := f.svc.CreateOrder(context.Background(), o)
	require.NoError(t, err)
	return created
}

func TestOrderService_CreateThenGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := sampleOrder("o1", 1, "c1", item("p1", "v1", 2), item("p-gone", "v2", 1))

	created, err := f.svc.CreateOrder(ctx, o)
	require.NoError(t, err)
	assert.Equal(t, "o1", created.ID)

	got, err := f.svc.GetOrderByID(ctx, "o1")
	require.NoError(t, err)

	assert.Equal(t, "Ada", got.CustomerFirstName)
	assert.Equal(t, "Lovelace", got.CustomerLastName)
	assert.Equal(t, "Teapot", got.Items[0].ProductName)
	assert.Empty(t, got.Items[1].ProductName, "missing product only blanks its own item")

	got.ClearEnrichment()
	assert.Equal(t, o, got)
	assert.Equal(t, []models.EventType{models.EventOrderCreated}, f.sink.types())
}

func TestOrderService_CreateAssignsIDAndDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, sampleOrder("", 1, "c1", item("p1", "v1", 1)))
	b := f.create(t, sampleOrder("", 1, "c1", item("p1", "v1", 1)))

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "no idempotency key: same payload makes two orders")

	all, err := f.svc.GetOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderService_GetOrderByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetOrderByID(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderService_GetOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.svc.GetOrders(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))
	f.create(t, sampleOrder("o2", 2, "ghost", item("p1", "v1", 1)))

	all, err = f.svc.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ada", all[0].CustomerFirstName)
	assert.Empty(t, all[1].CustomerFirstName, "unresolved customer leaves names empty")
}

func TestOrderService_EnrichmentIsBatched(t *testing.T) {
	f := newFixture(t)
	counting := &countingDirectory{Directory: f.dir}
	svc := NewOrderService(f.store, counting, nil, zap.NewNop())

	for i, c := range []string{"c1", "c2", "c1", "c2"} {
		_, err := svc.CreateOrder(context.Background(), sampleOrder("", int64(i), c, item("p1", "v1", 1)))
		require.NoError(t, err)
	}

	all, err := svc.GetOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, 1, counting.calls)
}

func TestOrderService_DirectoryFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))
	down := errors.New("directory unavailable")
	svc := NewOrderService(f.store, failingDirectory{err: down}, nil, zap.NewNop())

	_, err := svc.GetOrders(context.Background())
	assert.ErrorIs(t, err, down)

	_, err = svc.GetOrderByID(context.Background(), "o1")
	assert.ErrorIs(t, err, down)
}

func TestOrderService_UpdateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))

	changed := sampleOrder("ignored", 1, "c1", item("p1", "v1", 5))
	changed.CustomerFirstName = "Stale"

	updated, err := f.svc.UpdateOrder(ctx, "o1", changed)
	require.NoError(t, err)
	assert.Equal(t, "o1", updated.ID)
	assert.Equal(t, int64(1), updated.Version)
	assert.Empty(t, updated.CustomerFirstName)

	got, err := f.svc.GetOrderByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, int32(5), got.Items[0].Quantity)
	assert.Equal(t, "Ada", got.CustomerFirstName)

	t.Run("stale_version_conflicts", func(t *testing.T) {
		stale := sampleOrder("o1", 1, "c1", item("p1", "v1", 9))
		_, err := f.svc.UpdateOrder(ctx, "o1", stale)
		assert.ErrorIs(t, err, models.ErrConflict)

		got, err := f.svc.GetOrderByID(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, int32(5), got.Items[0].Quantity)
	})

	t.Run("missing_id_not_found", func(t *testing.T) {
		_, err := f.svc.UpdateOrder(ctx, "nope", sampleOrder("", 1, "c1"))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestOrderService_RequestCancellationIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))

	for i := 0; i < 2; i++ {
		o, err := f.svc.RequestOrderCancellation(ctx, "o1", "changed my mind")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancellationRequested, o.Status)
		assert.True(t, o.IsCancellationRequested)
		assert.Equal(t, models.DecisionPending, o.CancellationDecision)
		assert.Equal(t, "changed my mind", o.CancellationNote)
	}

	requests, err := f.svc.GetCancelRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "o1", requests[0].ID)
}

func TestOrderService_ApproveCancellation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))

	_, err := f.svc.RequestOrderCancellation(ctx, "o1", "n1")
	require.NoError(t, err)

	o, err := f.svc.ApproveOrderCancellation(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancellationApproved, o.Status)
	assert.Equal(t, models.DecisionApproved, o.CancellationDecision)
	assert.Equal(t, "n1", o.CancellationNote)

	approved, err := f.svc.GetApprovedCancellations(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "o1", approved[0].ID)

	requests, err := f.svc.GetCancelRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, requests)

	assert.Equal(t, []models.EventType{
		models.EventOrderCreated,
		models.EventCancellationRequested,
		models.EventCancellationApproved,
	}, f.sink.types())
}

func TestOrderService_RejectCancellation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))

	_, err := f.svc.RequestOrderCancellation(ctx, "o1", "n1")
	require.NoError(t, err)

	o, err := f.svc.RejectOrderCancellation(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, models.DecisionRejected, o.CancellationDecision)

	approved, err := f.svc.GetApprovedCancellations(ctx)
	require.NoError(t, err)
	assert.Empty(t, approved)

	requests, err := f.svc.GetCancelRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, requests)

	// a rejected order may be asked to cancel again
	o, err = f.svc.RequestOrderCancellation(ctx, "o1", "n2")
	require.NoError(t, err)
	assert.Equal(t, models.DecisionPending, o.CancellationDecision)
}

func TestOrderService_TransitionGuards(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		apply   func(f *fixture) (*models.Order, error)
	}{
		{
			name:  "approve_without_request",
			apply: func(f *fixture) (*models.Order, error) { return f.svc.ApproveOrderCancellation(context.Background(), "o1") },
		},
		{
			name:  "reject_without_request",
			apply: func(f *fixture) (*models.Order, error) { return f.svc.RejectOrderCancellation(context.Background(), "o1") },
		},
		{
			name: "approve_twice",
			prepare: func(f *fixture) {
				_, _ = f.svc.RequestOrderCancellation(context.Background(), "o1", "n")
				_, _ = f.svc.ApproveOrderCancellation(context.Background(), "o1")
			},
			apply: func(f *fixture) (*models.Order, error) { return f.svc.ApproveOrderCancellation(context.Background(), "o1") },
		},
		{
			name: "reject_after_approve",
			prepare: func(f *fixture) {
				_, _ = f.svc.RequestOrderCancellation(context.Background(), "o1", "n")
				_, _ = f.svc.ApproveOrderCancellation(context.Background(), "o1")
			},
			apply: func(f *fixture) (*models.Order, error) { return f.svc.RejectOrderCancellation(context.Background(), "o1") },
		},
		{
			name: "request_after_approve",
			prepare: func(f *fixture) {
				_, _ = f.svc.RequestOrderCancellation(context.Background(), "o1", "n")
				_, _ = f.svc.ApproveOrderCancellation(context.Background(), "o1")
			},
			apply: func(f *fixture) (*models.Order, error) {
				return f.svc.RequestOrderCancellation(context.Background(), "o1", "again")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))
			if tt.prepare != nil {
				tt.prepare(f)
			}
			before, err := f.store.FindOne(context.Background(), models.OrderFilter{ID: "o1"}, models.FindOptions{})
			require.NoError(t, err)

			_, err = tt.apply(f)
			assert.ErrorIs(t, err, models.ErrInvalidTransition)

			after, err := f.store.FindOne(context.Background(), models.OrderFilter{ID: "o1"}, models.FindOptions{})
			require.NoError(t, err)
			assert.Equal(t, before, after, "rejected transition must not mutate")
		})
	}
}

func TestOrderService_TransitionsOnMissingID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))

	_, err := f.svc.RequestOrderCancellation(ctx, "nope", "n")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.svc.ApproveOrderCancellation(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.svc.RejectOrderCancellation(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)

	all, err := f.svc.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.StatusPending, all[0].Status)
	assert.Equal(t, []models.EventType{models.EventOrderCreated}, f.sink.types())
}

func TestOrderService_GetCancelRequestsOnlyRequested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))
	f.create(t, sampleOrder("o2", 2, "c1", item("p1", "v1", 1)))

	_, err := f.svc.RequestOrderCancellation(ctx, "o2", "n")
	require.NoError(t, err)

	requests, err := f.svc.GetCancelRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "o2", requests[0].ID)
}

func TestOrderService_GetLastOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetLastOrder(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	for i, code := range []int64{5, 9, 2} {
		f.create(t, sampleOrder(string(rune('a'+i)), code, "c1"))
	}

	last, err := f.svc.GetLastOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), last.OrderCode)
}

func TestOrderService_GetOrdersByVendorID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("mixed", 1, "c1", item("p1", "v1", 1), item("p2", "v2", 1)))
	f.create(t, sampleOrder("only-v2", 2, "c2", item("p2", "v2", 1)))

	got, err := f.svc.GetOrdersByVendorID(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mixed", got[0].ID)
	assert.Equal(t, "Ada", got[0].CustomerFirstName)

	got, err = f.svc.GetOrdersByVendorID(ctx, "v2")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.svc.GetOrdersByVendorID(ctx, "v3")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOrderService_GetOrdersByCustomerIDIsNotEnriched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))
	f.create(t, sampleOrder("o2", 2, "c2", item("p1", "v1", 1)))

	got, err := f.svc.GetOrdersByCustomerID(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)
	assert.Empty(t, got[0].CustomerFirstName)
	assert.Empty(t, got[0].CustomerLastName)
}

func TestOrderService_ConcurrentDecisionsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, sampleOrder("o1", 1, "c1", item("p1", "v1", 1)))
	_, err := f.svc.RequestOrderCancellation(ctx, "o1", "n")
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(approve bool) {
			defer wg.Done()
			var err error
			if approve {
				_, err = f.svc.ApproveOrderCancellation(ctx, "o1")
			} else {
				_, err = f.svc.RejectOrderCancellation(ctx, "o1")
			}
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

type brokenSink struct{}

func (brokenSink) Publish(context.Context, models.OrderEvent) error {
	return errors.New("broker unavailable")
}

func TestOrderService_SinkFailureDoesNotFailMutation(t *testing.T) {
	svc := NewOrderService(repository.NewMemoryStore(), repository.NewMemoryDirectory(), brokenSink{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, sampleOrder("o1", 1, "c1"))
	require.NoError(t, err)

	o, err := svc.RequestOrderCancellation(ctx, "o1", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancellationRequested, o.Status)
}
