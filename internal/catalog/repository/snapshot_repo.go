package repository

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
)

// ErrCorruptSnapshot is returned by Decode when the payload is not a product list.
var ErrCorruptSnapshot = errors.New("corrupt catalog snapshot")

// SnapshotRepository reads and writes the whole catalog as one JSON array.
// It remembers a digest of the last snapshot it read or wrote so Refresh can tell
// when another process has written the slot. Not safe for concurrent use.
type SnapshotRepository struct {
	slot   storage.Slot
	digest [sha256.Size]byte
	known  bool
}

// NewSnapshotRepository creates a new SnapshotRepository
func NewSnapshotRepository(slot storage.Slot) *SnapshotRepository {
	return &SnapshotRepository{slot: slot}
}

// Slot exposes the underlying slot (health checks, backups).
func (r *SnapshotRepository) Slot() storage.Slot {
	return r.slot
}

// Load returns the stored catalog. found is false when the slot is empty or its content
// does not decode; both cases mean "no data" to the caller. Only transport failures are errors.
func (r *SnapshotRepository) Load(ctx context.Context) (products []domain.Product, found bool, err error) {
	data, err := r.slot.Read(ctx)
	if errors.Is(err, storage.ErrEmpty) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	products, err = Decode(data)
	if err != nil {
		log.Printf("[catalog] ignoring unreadable snapshot in %s slot: %v", r.slot.Driver(), err)
		return nil, false, nil
	}
	r.remember(data)
	return products, true, nil
}

// Refresh rereads the slot and returns its catalog when it differs from the last
// snapshot this repository loaded or saved. An empty or unreadable slot is not a change.
func (r *SnapshotRepository) Refresh(ctx context.Context) (products []domain.Product, changed bool, err error) {
	data, err := r.slot.Read(ctx)
	if errors.Is(err, storage.ErrEmpty) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if r.known && sha256.Sum256(data) == r.digest {
		return nil, false, nil
	}

	products, err = Decode(data)
	if err != nil {
		log.Printf("[catalog] ignoring unreadable snapshot in %s slot: %v", r.slot.Driver(), err)
		return nil, false, nil
	}
	r.remember(data)
	return products, true, nil
}

// Save overwrites the slot with the given catalog.
func (r *SnapshotRepository) Save(ctx context.Context, products []domain.Product) error {
	data, err := Encode(products)
	if err != nil {
		return err
	}
	if err := r.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	r.remember(data)
	return nil
}

func (r *SnapshotRepository) remember(data []byte) {
	r.digest = sha256.Sum256(data)
	r.known = true
}

// Encode serializes the catalog. A nil list is written as [] and nil image lists as [].
func Encode(products []domain.Product) ([]byte, error) {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. Records written before ids existed come back with an empty ID.
func Decode(data []byte) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if products == nil {
		return nil, fmt.Errorf("%w: not a list", ErrCorruptSnapshot)
	}
	for i := range products {
		products[i].Normalize()
	}
	return products, nil
}
