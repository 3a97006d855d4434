package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectLister struct {
	keys      []string
	listErr   error
	removed   []string
	removeErr map[string]error
}

func (f *fakeObjectLister) ListKeys(ctx context.Context) ([]string, error) {
	return f.keys, f.listErr
}

func (f *fakeObjectLister) Remove(ctx context.Context, key string) error {
	if err, ok := f.removeErr[key]; ok {
		return err
	}
	f.removed = append(f.removed, key)
	return nil
}

type fakeURLSource struct {
	urls []string
	err  error
}

func (f *fakeURLSource) ReferencedPDFURLs() ([]string, error) {
	return f.urls, f.err
}

func TestSweepOrphanObjects_RemovesOnlyUnreferenced(t *testing.T) {
	store := &fakeObjectLister{
		keys: []string{"live.pdf", "orphan-a.pdf", "nested/orphan-b.pdf"},
	}
	source := &fakeURLSource{
		urls: []string{"https://files.example.com/ebook-pdf/live.pdf"},
	}

	processor := SweepOrphanObjectsProcessor(store, source, "ebook-pdf")
	err := processor(context.Background(), SweepOrphanObjectsTask{Requested: time.Now()})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"orphan-a.pdf", "nested/orphan-b.pdf"}, store.removed)
}

func TestSweepOrphanObjects_IgnoresForeignURLs(t *testing.T) {
	// A referenced URL outside the bucket protects nothing: the bucket object
	// with no matching reference is still an orphan.
	store := &fakeObjectLister{keys: []string{"stray.pdf"}}
	source := &fakeURLSource{urls: []string{"https://cdn.example.com/other/stray.pdf"}}

	processor := SweepOrphanObjectsProcessor(store, source, "ebook-pdf")
	err := processor(context.Background(), SweepOrphanObjectsTask{})

	require.NoError(t, err)
	assert.Equal(t, []string{"stray.pdf"}, store.removed)
}

func TestSweepOrphanObjects_RemoveFailureDoesNotFailTask(t *testing.T) {
	store := &fakeObjectLister{
		keys:      []string{"orphan-a.pdf", "orphan-b.pdf"},
		removeErr: map[string]error{"orphan-a.pdf": errors.New("access denied")},
	}
	source := &fakeURLSource{}

	processor := SweepOrphanObjectsProcessor(store, source, "ebook-pdf")
	err := processor(context.Background(), SweepOrphanObjectsTask{})

	require.NoError(t, err)
	assert.Equal(t, []string{"orphan-b.pdf"}, store.removed)
}

func TestSweepOrphanObjects_ListFailuresAbort(t *testing.T) {
	store := &fakeObjectLister{listErr: errors.New("bucket unavailable")}
	processor := SweepOrphanObjectsProcessor(store, &fakeURLSource{}, "ebook-pdf")
	err := processor(context.Background(), SweepOrphanObjectsTask{})
	assert.Error(t, err)

	source := &fakeURLSource{err: errors.New("db closed")}
	processor = SweepOrphanObjectsProcessor(&fakeObjectLister{}, source, "ebook-pdf")
	err = processor(context.Background(), SweepOrphanObjectsTask{})
	assert.Error(t, err)
}

func TestCleanupAuditEvents_DefaultsRetention(t *testing.T) {
	cleaner := &fakeAuditCleaner{}
	processor := CleanupAuditEventsProcessor(cleaner)

	err := processor(context.Background(), CleanupAuditEventsTask{})
	require.NoError(t, err)
	require.Len(t, cleaner.cutoffs, 1)

	// Zero retention falls back to 30 days
	want := time.Now().Add(-30 * 24 * time.Hour)
	assert.WithinDuration(t, want, cleaner.cutoffs[0], time.Minute)
}

func TestCleanupAuditEvents_PropagatesErrors(t *testing.T) {
	cleaner := &fakeAuditCleaner{err: errors.New("locked")}
	processor := CleanupAuditEventsProcessor(cleaner)

	err := processor(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
	assert.Error(t, err)
}

type fakeAuditCleaner struct {
	cutoffs []time.Time
	err     error
}

func (f *fakeAuditCleaner) DeleteOldEvents(olderThan time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, olderThan)
	return 0, f.err
}
