package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/repository"
)

// CatalogService is the single source of truth for the product list.
// Every mutation first adopts any snapshot another process wrote to the slot, then
// builds a new sequence, persists the full snapshot and only then swaps it in, so
// memory never diverges from the slot and writes from other processes are not lost.
type CatalogService struct {
	mu       sync.Mutex
	repo     *repository.SnapshotRepository
	metrics  *Metrics
	products []domain.Product
	version  uint64

	subMu   sync.Mutex
	subs    map[int]chan domain.ChangeEvent
	nextSub int
}

// NewCatalogService creates a new CatalogService. metrics may be nil.
func NewCatalogService(repo *repository.SnapshotRepository, metrics *Metrics) *CatalogService {
	return &CatalogService{
		repo:     repo,
		metrics:  metrics,
		products: []domain.Product{},
		subs:     make(map[int]chan domain.ChangeEvent),
	}
}

// Load hydrates the store from the slot. An empty or unreadable slot is seeded and the
// seed persisted right away, so the next Load returns the same records.
func (s *CatalogService) Load(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, found, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !found {
		seed := domain.Seed()
		if err := s.commit(ctx, domain.OpSeed, "", seed); err != nil {
			return nil, err
		}
		log.Printf("[catalog] no snapshot in %s slot, seeded %d products", s.repo.Slot().Driver(), len(seed))
		return cloneAll(s.products), nil
	}

	if assignMissingIDs(products) {
		if err := s.commit(ctx, domain.OpAssignIDs, "", products); err != nil {
			return nil, err
		}
		log.Printf("[catalog] assigned ids to legacy records")
	} else {
		s.products = products
		s.metrics.setCount(len(products))
	}

	log.Printf("[catalog] loaded %d products from %s slot", len(s.products), s.repo.Slot().Driver())
	return cloneAll(s.products), nil
}

// List returns a copy of the current sequence in insertion order.
func (s *CatalogService) List() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.products)
}

// Len returns the current number of records.
func (s *CatalogService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// Version increases by one on every successful mutation.
func (s *CatalogService) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// At returns the record at a position.
func (s *CatalogService) At(index int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.products) {
		return domain.Product{}, domain.ErrIndexOutOfRange
	}
	return s.products[index].Clone(), nil
}

// Get returns the record with the given id.
func (s *CatalogService) Get(id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return s.products[i].Clone(), nil
}

// IndexOf resolves an id to its current position.
func (s *CatalogService) IndexOf(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return -1, domain.ErrProductNotFound
	}
	return i, nil
}

// Create appends a record at position len. The record always gets a fresh id.
func (s *CatalogService) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sync(ctx); err != nil {
		return domain.Product{}, err
	}

	p = p.Clone()
	p.ID = domain.NewID()

	next := make([]domain.Product, 0, len(s.products)+1)
	next = append(next, s.products...)
	next = append(next, p)

	if err := s.commit(ctx, domain.OpCreate, p.ID, next); err != nil {
		return domain.Product{}, err
	}
	return p.Clone(), nil
}

// ReplaceAt overwrites the record at index. The position keeps its id.
func (s *CatalogService) ReplaceAt(ctx context.Context, index int, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sync(ctx); err != nil {
		return domain.Product{}, err
	}
	return s.replaceAt(ctx, index, p)
}

// Update overwrites the record with the given id.
func (s *CatalogService) Update(ctx context.Context, id string, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sync(ctx); err != nil {
		return domain.Product{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return s.replaceAt(ctx, i, p)
}

// RemoveAt excises the record at index; later records shift down by one.
func (s *CatalogService) RemoveAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sync(ctx); err != nil {
		return err
	}
	return s.removeAt(ctx, index)
}

// Delete removes the record with the given id.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sync(ctx); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}
	return s.removeAt(ctx, i)
}

// AppendImage adds {url, ""} to a record's images. Blank urls change nothing and
// report false without touching the slot.
func (s *CatalogService) AppendImage(ctx context.Context, id, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sync(ctx); err != nil {
		return false, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return false, domain.ErrProductNotFound
	}

	p := s.products[i].Clone()
	if !p.AppendImage(url) {
		return false, nil
	}
	next := s.withReplaced(i, p)
	if err := s.commit(ctx, domain.OpAppendImage, id, next); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveImageAt drops one image of a record.
func (s *CatalogService) RemoveImageAt(ctx context.Context, id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sync(ctx); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}

	p := s.products[i].Clone()
	if err := p.RemoveImageAt(index); err != nil {
		return err
	}
	return s.commit(ctx, domain.OpRemoveImage, id, s.withReplaced(i, p))
}

// Replace swaps the whole catalog, e.g. after an import or a restore.
// Records keep their ids unless missing or duplicated.
func (s *CatalogService) Replace(ctx context.Context, products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneAll(products)
	assignMissingIDs(next)
	return s.commit(ctx, domain.OpReplaceAll, "", next)
}

// Sync adopts the slot's snapshot when another process has written it since this
// store last loaded or saved. Mutations call it first; the redis watcher calls it on
// every write notification.
func (s *CatalogService) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sync(ctx)
}

// Subscribe registers for change events. Slow subscribers miss events rather than
// blocking writers; the Version field lets them notice the gap.
func (s *CatalogService) Subscribe(buffer int) (<-chan domain.ChangeEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.ChangeEvent, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *CatalogService) replaceAt(ctx context.Context, index int, p domain.Product) (domain.Product, error) {
	if index < 0 || index >= len(s.products) {
		return domain.Product{}, domain.ErrIndexOutOfRange
	}
	p = p.Clone()
	p.ID = s.products[index].ID

	if err := s.commit(ctx, domain.OpUpdate, p.ID, s.withReplaced(index, p)); err != nil {
		return domain.Product{}, err
	}
	return p.Clone(), nil
}

func (s *CatalogService) removeAt(ctx context.Context, index int) error {
	if index < 0 || index >= len(s.products) {
		return domain.ErrIndexOutOfRange
	}
	id := s.products[index].ID

	next := make([]domain.Product, 0, len(s.products)-1)
	next = append(next, s.products[:index]...)
	next = append(next, s.products[index+1:]...)

	return s.commit(ctx, domain.OpDelete, id, next)
}

func (s *CatalogService) withReplaced(index int, p domain.Product) []domain.Product {
	next := make([]domain.Product, len(s.products))
	copy(next, s.products)
	next[index] = p
	return next
}

func (s *CatalogService) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// sync is Sync without locking. Caller holds s.mu.
func (s *CatalogService) sync(ctx context.Context) error {
	products, changed, err := s.repo.Refresh(ctx)
	if err != nil {
		log.Printf("[catalog] failed to check slot for external writes: %v", err)
		return err
	}
	if !changed {
		return nil
	}

	assignMissingIDs(products)
	s.products = products
	s.version++
	s.metrics.setCount(len(products))
	s.publish(domain.ChangeEvent{Version: s.version, Op: domain.OpReload, Count: len(products)})
	log.Printf("[catalog] adopted external snapshot with %d products", len(products))
	return nil
}

// commit persists next and swaps it in. Caller holds s.mu.
func (s *CatalogService) commit(ctx context.Context, op, id string, next []domain.Product) error {
	for i := range next {
		next[i].Normalize()
	}

	start := time.Now()
	err := s.repo.Save(ctx, next)
	s.metrics.observe(op, time.Since(start), err)
	if err != nil {
		log.Printf("[catalog] %s failed, keeping previous state: %v", op, err)
		return err
	}

	s.products = next
	s.version++
	s.metrics.setCount(len(next))
	s.publish(domain.ChangeEvent{Version: s.version, Op: op, ID: id, Count: len(next)})
	return nil
}

func (s *CatalogService) publish(ev domain.ChangeEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// assignMissingIDs gives an id to every record lacking one or sharing one with an
// earlier record. Reports whether anything changed.
func assignMissingIDs(products []domain.Product) bool {
	seen := make(map[string]struct{}, len(products))
	changed := false
	for i := range products {
		if _, dup := seen[products[i].ID]; products[i].ID == "" || dup {
			products[i].ID = domain.NewID()
			changed = true
		}
		seen[products[i].ID] = struct{}{}
	}
	return changed
}

func cloneAll(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
