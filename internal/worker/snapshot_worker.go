package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/shop_dashboard/internal/cache"
	"github.com/GTDGit/shop_dashboard/internal/models"
)

// ProductSource loads the local product catalogue.
type ProductSource interface {
	GetAll(ctx context.Context) ([]models.Product, error)
}

// BillSource loads local bills with their items.
type BillSource interface {
	GetAll(ctx context.Context) ([]models.Bill, error)
}

// CustomerSource loads local customers.
type CustomerSource interface {
	GetAll(ctx context.Context) ([]models.Customer, error)
}

// SnapshotCache persists snapshots across restarts.
type SnapshotCache interface {
	Save(ctx context.Context, snap models.Snapshot) error
	Load(ctx context.Context) (models.Snapshot, error)
}

// SnapshotStore receives freshly loaded snapshots.
type SnapshotStore interface {
	Replace(snap models.Snapshot)
	Loaded() bool
}

// RefreshNotifier is told about every snapshot the worker stores.
type RefreshNotifier interface {
	NotifySnapshotRefreshed(snap models.Snapshot)
}

// SnapshotWorker periodically reloads the local snapshot from the database
// into the in-memory store and mirrors it to the cache.
type SnapshotWorker struct {
	products  ProductSource
	bills     BillSource
	customers CustomerSource
	store     SnapshotStore
	cache     SnapshotCache
	notifier  RefreshNotifier
	interval  time.Duration
	now       func() time.Time
}

// NewSnapshotWorker constructs a SnapshotWorker. snapshots may be nil.
func NewSnapshotWorker(
	products ProductSource,
	bills BillSource,
	customers CustomerSource,
	store SnapshotStore,
	snapshots SnapshotCache,
	interval time.Duration,
) *SnapshotWorker {
	return &SnapshotWorker{
		products:  products,
		bills:     bills,
		customers: customers,
		store:     store,
		cache:     snapshots,
		interval:  interval,
		now:       time.Now,
	}
}

// WithNotifier registers n to hear about refreshed snapshots.
func (w *SnapshotWorker) WithNotifier(n RefreshNotifier) *SnapshotWorker {
	w.notifier = n
	return w
}

// WarmStart seeds the store from the cache when nothing has been loaded yet.
// A miss or a broken cache entry is not an error; the next refresh fills the store.
func (w *SnapshotWorker) WarmStart(ctx context.Context) {
	if w.cache == nil || w.store.Loaded() {
		return
	}

	snap, err := w.cache.Load(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			log.Debug().Msg("No cached snapshot to warm start from")
			return
		}
		log.Warn().Err(err).Msg("Failed to read cached snapshot")
		return
	}

	w.store.Replace(snap)
	log.Info().
		Int("products", len(snap.Products)).
		Int("bills", len(snap.Bills)).
		Int("customers", len(snap.Customers)).
		Time("loaded_at", snap.LoadedAt).
		Msg("Snapshot restored from cache")
}

// Start begins the periodic refresh loop and listens for context cancellation.
func (w *SnapshotWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting snapshot worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Snapshot worker stopped")
			return
		}
	}
}

func (w *SnapshotWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Msg("Failed to refresh snapshot, keeping previous one")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Snapshot refreshed")
}

// Refresh loads all three collections and swaps them into the store. On any
// failure the store keeps its previous snapshot.
func (w *SnapshotWorker) Refresh(ctx context.Context) error {
	var snap models.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := w.products.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		bills, err := w.bills.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("load bills: %w", err)
		}
		snap.Bills = bills
		return nil
	})
	g.Go(func() error {
		customers, err := w.customers.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		snap.Customers = customers
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	snap.LoadedAt = w.now()
	w.store.Replace(snap)

	if w.cache != nil {
		if err := w.cache.Save(ctx, snap); err != nil {
			log.Warn().Err(err).Msg("Failed to cache snapshot")
		}
	}
	if w.notifier != nil {
		w.notifier.NotifySnapshotRefreshed(snap)
	}
	return nil
}
