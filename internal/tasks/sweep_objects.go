package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/Yu1chiro/elib-smantiara/internal/storage"
)

// ObjectLister enumerates and removes keys in the PDF bucket.
type ObjectLister interface {
	ListKeys(ctx context.Context) ([]string, error)
	Remove(ctx context.Context, key string) error
}

// PDFURLSource reports every PDF URL the catalog still references.
type PDFURLSource interface {
	ReferencedPDFURLs() ([]string, error)
}

// SweepOrphanObjectsTask removes bucket objects that no catalog entry
// references. Inline cleanup during update and delete is best-effort, so
// failed removals accumulate as orphans until this sweep catches them.
type SweepOrphanObjectsTask struct {
	Requested time.Time `json:"requested"`
}

// Config returns the queue configuration for orphan sweep tasks.
func (t SweepOrphanObjectsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_orphan_objects",
		MaxAttempts: 3,
		Backoff:     10 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SweepOrphanObjectsProcessor creates a processor function for
// SweepOrphanObjectsTask.
func SweepOrphanObjectsProcessor(store ObjectLister, source PDFURLSource, bucket string) backlite.QueueProcessor[SweepOrphanObjectsTask] {
	return func(ctx context.Context, task SweepOrphanObjectsTask) error {
		if store == nil || source == nil {
			return fmt.Errorf("orphan sweep not configured")
		}

		urls, err := source.ReferencedPDFURLs()
		if err != nil {
			return fmt.Errorf("list referenced pdf urls: %w", err)
		}

		referenced := make(map[string]struct{}, len(urls))
		for _, rawURL := range urls {
			if key, ok := storage.ObjectKey(rawURL, bucket); ok {
				referenced[key] = struct{}{}
			}
		}

		keys, err := store.ListKeys(ctx)
		if err != nil {
			return fmt.Errorf("list bucket objects: %w", err)
		}

		var removed, failed int
		for _, key := range keys {
			if _, ok := referenced[key]; ok {
				continue
			}
			if err := store.Remove(ctx, key); err != nil {
				log.Printf("[TASK] Failed to remove orphan object %q: %v", key, err)
				failed++
				continue
			}
			removed++
		}

		log.Printf("[TASK] Orphan sweep: %d objects scanned, %d referenced, %d removed, %d failed",
			len(keys), len(referenced), removed, failed)
		return nil
	}
}

// NewSweepOrphanObjectsQueue creates a backlite queue for orphan sweep tasks.
func NewSweepOrphanObjectsQueue(store ObjectLister, source PDFURLSource, bucket string) backlite.Queue {
	return backlite.NewQueue(SweepOrphanObjectsProcessor(store, source, bucket))
}
