package memory

import (
	"context"
	"sync"

	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
)

// Slot keeps the snapshot in process memory.
type Slot struct {
	mu     sync.RWMutex
	data   []byte
	writes int
}

func New() *Slot {
	return &Slot{}
}

func (s *Slot) Read(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, storage.ErrEmpty
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *Slot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.writes++
	return nil
}

// Writes reports how many times the slot was overwritten.
func (s *Slot) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Slot) Ping(context.Context) error { return nil }
func (s *Slot) Close() error { return nil }
func (s *Slot) Driver() storage.Driver { return storage.DriverMemory }
