package bootstrap

import (
	"context"
	"log"

	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
)

// Syncer adopts snapshots written to the slot by another process.
type Syncer interface {
	Sync(ctx context.Context) error
}

// WatchSlot keeps store in step with writes made by other processes (catalogctl, a
// second replica) when the slot announces them. It reports false for slots that do
// not; those stores still catch up before their next mutation.
func WatchSlot(ctx context.Context, slot storage.Slot, store Syncer) bool {
	w, ok := slot.(storage.Watcher)
	if !ok {
		return false
	}

	go func() {
		err := w.Watch(ctx, func() {
			if err := store.Sync(ctx); err != nil {
				log.Printf("[catalog] sync after slot notification failed: %v", err)
			}
		})
		if err != nil {
			log.Printf("[storage] %s watch stopped: %v", slot.Driver(), err)
		}
	}()
	return true
}
