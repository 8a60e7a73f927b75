package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/repository"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage/memory"
	redisslot "github.com/GoSim-25-26J-441/product-catalog/internal/storage/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySlot fails writes on demand.
type flakySlot struct {
	*memory.Slot
	mu   sync.Mutex
	fail bool
}

func (f *flakySlot) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *flakySlot) Write(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("disk full")
	}
	return f.Slot.Write(ctx, data)
}

// unreadableSlot fails reads once broken is set.
type unreadableSlot struct {
	*flakySlot
	broken bool
}

func (u *unreadableSlot) Read(ctx context.Context) ([]byte, error) {
	if u.broken {
		return nil, errors.New("connection reset")
	}
	return u.flakySlot.Read(ctx)
}

func newLoadedService(t *testing.T, slot storage.Slot) *CatalogService {
	t.Helper()
	svc := NewCatalogService(repository.NewSnapshotRepository(slot), nil)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	return svc
}

func stripIDs(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		p.ID = ""
		out[i] = p
	}
	return out
}

func TestCatalogService_LoadSeedsOnce(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()

	first := NewCatalogService(repository.NewSnapshotRepository(slot), nil)
	seeded, err := first.Load(ctx)
	require.NoError(t, err)
	require.Len(t, seeded, 3)
	assert.Equal(t, stripIDs(domain.Seed()), stripIDs(seeded))
	assert.Equal(t, 1, slot.Writes(), "seed must be persisted immediately")

	second := NewCatalogService(repository.NewSnapshotRepository(slot), nil)
	again, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, again, "second load returns the same seed, ids included")
	assert.Equal(t, 1, slot.Writes())
}

func TestCatalogService_LoadCorruptSnapshotFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()
	require.NoError(t, slot.Write(ctx, []byte(`{"oops"`)))

	svc := newLoadedService(t, slot)
	assert.Equal(t, 3, svc.Len())

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	decoded, err := repository.Decode(data)
	require.NoError(t, err)
	assert.Len(t, decoded, 3)
}

func TestCatalogService_LoadAssignsLegacyIDs(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()
	require.NoError(t, slot.Write(ctx, []byte(`[
		{"name":"a","number":"1","description":"","images":[]},
		{"id":"dup","name":"b","number":"2","description":"","images":[]},
		{"id":"dup","name":"c","number":"3","description":"","images":[]}
	]`)))

	svc := newLoadedService(t, slot)
	products := svc.List()
	require.Len(t, products, 3)

	ids := map[string]bool{}
	for _, p := range products {
		require.NotEmpty(t, p.ID)
		ids[p.ID] = true
	}
	assert.Len(t, ids, 3)
	assert.Equal(t, "dup", products[1].ID, "first holder of an id keeps it")

	reloaded := newLoadedService(t, slot)
	assert.Equal(t, products, reloaded.List())
}

func TestCatalogService_LoadSurfacesSlotFailure(t *testing.T) {
	slot := &flakySlot{Slot: memory.New(), fail: true}
	svc := NewCatalogService(repository.NewSnapshotRepository(slot), nil)
	_, err := svc.Load(context.Background())
	assert.Error(t, err)
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, memory.New())
	before := svc.List()

	r := domain.Product{Name: "n", Number: "42", Description: "d", Images: []domain.Image{{URL: "u", Name: "x"}}}
	created, err := svc.Create(ctx, r)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	after := svc.List()
	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])

	last := after[len(after)-1]
	assert.Equal(t, created.ID, last.ID)
	last.ID = ""
	assert.Equal(t, r, last)

	idx, err := svc.IndexOf(created.ID)
	require.NoError(t, err)
	assert.Equal(t, len(before), idx)
}

func TestCatalogService_CreateNormalizesImages(t *testing.T) {
	svc := newLoadedService(t, memory.New())
	created, err := svc.Create(context.Background(), domain.Product{})
	require.NoError(t, err)
	assert.NotNil(t, created.Images)
	assert.Empty(t, created.Images)
}

func TestCatalogService_ReplaceAt(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, memory.New())
	before := svc.List()

	r := domain.Product{Name: "replaced", Number: "n", Description: "d", Images: []domain.Image{}}
	updated, err := svc.ReplaceAt(ctx, 1, r)
	require.NoError(t, err)
	assert.Equal(t, before[1].ID, updated.ID, "position keeps its id")

	after := svc.List()
	require.Len(t, after, len(before))
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[2])
	assert.Equal(t, "replaced", after[1].Name)

	t.Run("out of range leaves sequence untouched", func(t *testing.T) {
		for _, i := range []int{-1, 3, 100} {
			_, err := svc.ReplaceAt(ctx, i, r)
			assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
		}
		assert.Equal(t, after, svc.List())
	})
}

func TestCatalogService_RemoveAt(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, memory.New())
	before := svc.List()

	require.NoError(t, svc.RemoveAt(ctx, 0))
	after := svc.List()
	require.Len(t, after, 2)
	assert.Equal(t, before[1:], after)

	assert.ErrorIs(t, svc.RemoveAt(ctx, 2), domain.ErrIndexOutOfRange)
	assert.ErrorIs(t, svc.RemoveAt(ctx, -1), domain.ErrIndexOutOfRange)
	assert.Len(t, svc.List(), 2)
}

// Seed (3 records) -> removeAt(1) -> positions 0,1 hold original 0,2 and the slot agrees.
func TestCatalogService_RemoveMiddleScenario(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()
	svc := newLoadedService(t, slot)
	seed := svc.List()

	require.NoError(t, svc.RemoveAt(ctx, 1))
	assert.Equal(t, []domain.Product{seed[0], seed[2]}, svc.List())

	reloaded := newLoadedService(t, slot)
	assert.Equal(t, []domain.Product{seed[0], seed[2]}, reloaded.List())
}

func TestCatalogService_IDAddressingSurvivesDeletes(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, memory.New())
	seed := svc.List()

	// a link captured for the last record before an earlier delete
	target := seed[2].ID
	require.NoError(t, svc.Delete(ctx, seed[0].ID))

	p, err := svc.Get(target)
	require.NoError(t, err)
	assert.Equal(t, seed[2], p)

	_, err = svc.Update(ctx, target, domain.Product{Name: "edited", Images: []domain.Image{}})
	require.NoError(t, err)
	assert.Equal(t, "edited", svc.List()[1].Name)

	assert.ErrorIs(t, svc.Delete(ctx, seed[0].ID), domain.ErrProductNotFound)
	_, err = svc.Get(seed[0].ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = svc.Update(ctx, "missing", domain.Product{})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_AppendImage(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()
	svc := newLoadedService(t, slot)
	p := svc.List()[1]
	writes := slot.Writes()

	for _, blank := range []string{"", "   ", "\t\n"} {
		added, err := svc.AppendImage(ctx, p.ID, blank)
		require.NoError(t, err)
		assert.False(t, added)
	}
	assert.Equal(t, writes, slot.Writes(), "blank urls never hit the slot")

	added, err := svc.AppendImage(ctx, p.ID, "http://x")
	require.NoError(t, err)
	assert.True(t, added)

	got, err := svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, append(p.Images, domain.Image{URL: "http://x", Name: ""}), got.Images)

	_, err = svc.AppendImage(ctx, "missing", "http://x")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_RemoveImageAt(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, memory.New())
	p := svc.List()[0]
	require.Len(t, p.Images, 2)

	require.NoError(t, svc.RemoveImageAt(ctx, p.ID, 0))
	got, err := svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Images[1:], got.Images)

	assert.ErrorIs(t, svc.RemoveImageAt(ctx, p.ID, 5), domain.ErrIndexOutOfRange)
	assert.ErrorIs(t, svc.RemoveImageAt(ctx, "missing", 0), domain.ErrProductNotFound)
}

func TestCatalogService_FailedWriteKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	slot := &flakySlot{Slot: memory.New()}
	svc := newLoadedService(t, slot)
	before := svc.List()
	version := svc.Version()

	slot.setFail(true)
	_, err := svc.Create(ctx, domain.Product{Name: "lost"})
	assert.Error(t, err)
	assert.Error(t, svc.RemoveAt(ctx, 0))
	_, err = svc.AppendImage(ctx, before[0].ID, "http://x")
	assert.Error(t, err)

	assert.Equal(t, before, svc.List())
	assert.Equal(t, version, svc.Version())

	slot.setFail(false)
	reloaded := newLoadedService(t, slot.Slot)
	assert.Equal(t, before, reloaded.List())
}

func TestCatalogService_Replace(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, memory.New())

	err := svc.Replace(ctx, []domain.Product{
		{ID: "keep", Name: "a"},
		{Name: "b"},
	})
	require.NoError(t, err)

	products := svc.List()
	require.Len(t, products, 2)
	assert.Equal(t, "keep", products[0].ID)
	assert.NotEmpty(t, products[1].ID)
	assert.NotNil(t, products[1].Images)
}

func TestCatalogService_ListReturnsCopies(t *testing.T) {
	svc := newLoadedService(t, memory.New())
	list := svc.List()
	list[0].Name = "mutated"
	list[0].Images[0].URL = "mutated"

	fresh := svc.List()
	assert.NotEqual(t, "mutated", fresh[0].Name)
	assert.NotEqual(t, "mutated", fresh[0].Images[0].URL)

	_, err := svc.At(3)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	p, err := svc.At(0)
	require.NoError(t, err)
	assert.Equal(t, fresh[0], p)
}

func TestCatalogService_Subscribe(t *testing.T) {
	ctx := context.Background()
	svc := newLoadedService(t, memory.New())

	events, cancel := svc.Subscribe(4)
	created, err := svc.Create(ctx, domain.Product{Name: "n"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	ev := <-events
	assert.Equal(t, domain.OpCreate, ev.Op)
	assert.Equal(t, created.ID, ev.ID)
	assert.Equal(t, 4, ev.Count)

	ev = <-events
	assert.Equal(t, domain.OpDelete, ev.Op)
	assert.Equal(t, 3, ev.Count)
	assert.Equal(t, svc.Version(), ev.Version)

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)
}

func TestCatalogService_TwoWritersShareSlot(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()
	server := newLoadedService(t, slot)
	cli := newLoadedService(t, slot)

	require.NoError(t, cli.Replace(ctx, []domain.Product{{Name: "imported", Number: "1"}}))

	created, err := server.Create(ctx, domain.Product{Name: "new"})
	require.NoError(t, err)

	names := func(products []domain.Product) []string {
		out := make([]string, len(products))
		for i, p := range products {
			out[i] = p.Name
		}
		return out
	}
	assert.Equal(t, []string{"imported", "new"}, names(server.List()))

	fresh := newLoadedService(t, slot)
	assert.Equal(t, []string{"imported", "new"}, names(fresh.List()))
	assert.Equal(t, server.List(), fresh.List())

	// positions address the adopted sequence
	require.NoError(t, cli.RemoveAt(ctx, 0))
	require.NoError(t, server.RemoveAt(ctx, 0))
	assert.Empty(t, server.List())
	_, err = server.Get(created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_SyncPublishesReload(t *testing.T) {
	ctx := context.Background()
	slot := memory.New()
	server := newLoadedService(t, slot)
	cli := newLoadedService(t, slot)

	events, cancel := server.Subscribe(4)
	defer cancel()

	require.NoError(t, server.Sync(ctx))
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}

	before := server.Version()
	require.NoError(t, cli.Replace(ctx, []domain.Product{{Name: "a"}, {Name: "b"}}))
	require.NoError(t, server.Sync(ctx))

	ev := <-events
	assert.Equal(t, domain.OpReload, ev.Op)
	assert.Equal(t, 2, ev.Count)
	assert.Equal(t, before+1, server.Version())
	assert.Equal(t, cli.List(), server.List())
}

func TestCatalogService_MutationFailsWhenSlotUnreadable(t *testing.T) {
	slot := &unreadableSlot{flakySlot: &flakySlot{Slot: memory.New()}}
	svc := newLoadedService(t, slot)
	before := svc.List()

	slot.broken = true
	_, err := svc.Create(context.Background(), domain.Product{Name: "n"})
	assert.Error(t, err)
	assert.Equal(t, before, svc.List())
}

func TestCatalogService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	svc := NewCatalogService(repository.NewSnapshotRepository(memory.New()), metrics)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), domain.Product{Name: "n"})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.mutations.WithLabelValues(domain.OpSeed, "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.mutations.WithLabelValues(domain.OpCreate, "success")))
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.products))
}

func TestCatalogService_RedisRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	svc := newLoadedService(t, redisslot.New(client, "products"))
	_, err = svc.Create(ctx, domain.Product{Name: "from redis", Images: []domain.Image{{URL: "u"}}})
	require.NoError(t, err)

	reloaded := newLoadedService(t, redisslot.New(client, "products"))
	assert.Equal(t, svc.List(), reloaded.List())
	assert.True(t, mr.Exists("catalog:products"))
}
