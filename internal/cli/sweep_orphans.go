// Package cli implements one-off maintenance commands that run without the
// HTTP server.
package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/Yu1chiro/elib-smantiara/internal/config"
	"github.com/Yu1chiro/elib-smantiara/internal/database"
	"github.com/Yu1chiro/elib-smantiara/internal/database/books"
	"github.com/Yu1chiro/elib-smantiara/internal/storage"
)

// SweepOrphansCommand removes bucket objects no catalog entry references,
// synchronously and outside the task queue. Useful for a first cleanup after
// enabling object storage, or when the scheduled sweep is disabled.
type SweepOrphansCommand struct {
	fs      *flag.FlagSet
	dryRun  bool
	timeout time.Duration
}

func NewSweepOrphansCommand() *SweepOrphansCommand {
	cmd := &SweepOrphansCommand{
		fs: flag.NewFlagSet("sweep-orphans", flag.ContinueOnError),
	}
	cmd.fs.BoolVar(&cmd.dryRun, "dry-run", false, "list orphaned objects without removing them")
	cmd.fs.DurationVar(&cmd.timeout, "timeout", 10*time.Minute, "overall timeout for the sweep")
	return cmd
}

func (c *SweepOrphansCommand) ParseFlags(args []string) error {
	return c.fs.Parse(args)
}

func (c *SweepOrphansCommand) Run() error {
	cfg := config.NewConfig()

	if cfg.Storage.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT is not set; nothing to sweep")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	store, err := storage.NewMinioStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("connect to object storage: %w", err)
	}

	repo := books.NewRepository(db.DB, nil)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	urls, err := repo.ReferencedPDFURLs()
	if err != nil {
		return fmt.Errorf("list referenced pdf urls: %w", err)
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, rawURL := range urls {
		if key, ok := storage.ObjectKey(rawURL, cfg.Storage.Bucket); ok {
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
		if c.dryRun {
			fmt.Printf("orphan: %s\n", key)
			removed++
			continue
		}
		if err := store.Remove(ctx, key); err != nil {
			fmt.Printf("failed to remove %s: %v\n", key, err)
			failed++
			continue
		}
		fmt.Printf("removed: %s\n", key)
		removed++
	}

	verb := "removed"
	if c.dryRun {
		verb = "found"
	}
	fmt.Printf("Sweep complete: %d objects scanned, %d referenced, %d orphans %s, %d failed\n",
		len(keys), len(referenced), removed, verb, failed)
	return nil
}
