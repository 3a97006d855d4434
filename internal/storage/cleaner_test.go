package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	removed   []string
	removeErr error
	listKeys  []string
	listErr   error
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	return f.removeErr
}

func (f *fakeStore) ListKeys(ctx context.Context) ([]string, error) {
	return f.listKeys, f.listErr
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		bucket  string
		wantKey string
		wantOK  bool
	}{
		{
			name:    "standard object URL",
			rawURL:  "https://files.example.com/ebook-pdf/matematika.pdf",
			bucket:  "ebook-pdf",
			wantKey: "matematika.pdf",
			wantOK:  true,
		},
		{
			name:    "nested key",
			rawURL:  "https://files.example.com/ebook-pdf/kelas-x/fisika.pdf",
			bucket:  "ebook-pdf",
			wantKey: "kelas-x/fisika.pdf",
			wantOK:  true,
		},
		{
			name:    "bucket deeper in the path",
			rawURL:  "https://files.example.com/storage/v1/ebook-pdf/kimia.pdf",
			bucket:  "ebook-pdf",
			wantKey: "kimia.pdf",
			wantOK:  true,
		},
		{
			name:   "URL without the bucket",
			rawURL: "https://other.example.com/downloads/biologi.pdf",
			bucket: "ebook-pdf",
			wantOK: false,
		},
		{
			name:   "bucket is the last segment",
			rawURL: "https://files.example.com/ebook-pdf",
			bucket: "ebook-pdf",
			wantOK: false,
		},
		{
			name:   "empty URL",
			rawURL: "",
			bucket: "ebook-pdf",
			wantOK: false,
		},
		{
			name:   "unparseable URL",
			rawURL: "://not-a-url",
			bucket: "ebook-pdf",
			wantOK: false,
		},
		{
			name:    "query string is not part of the key",
			rawURL:  "https://files.example.com/ebook-pdf/sejarah.pdf?token=abc",
			bucket:  "ebook-pdf",
			wantKey: "sejarah.pdf",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ObjectKey(tt.rawURL, tt.bucket)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKey, key)
			}
		})
	}
}

func TestCleaner_Cleanup(t *testing.T) {
	store := &fakeStore{}
	cleaner := NewCleaner(store, "ebook-pdf")

	cleaner.Cleanup(context.Background(), "https://files.example.com/ebook-pdf/a.pdf")

	assert.Equal(t, []string{"a.pdf"}, store.removed)
}

func TestCleaner_Cleanup_SkipsForeignURLs(t *testing.T) {
	store := &fakeStore{}
	cleaner := NewCleaner(store, "ebook-pdf")

	cleaner.Cleanup(context.Background(), "https://cdn.example.com/images/cover.png")
	cleaner.Cleanup(context.Background(), "")

	assert.Empty(t, store.removed)
}

func TestCleaner_Cleanup_SwallowsRemoveErrors(t *testing.T) {
	store := &fakeStore{removeErr: errors.New("bucket unavailable")}
	cleaner := NewCleaner(store, "ebook-pdf")

	// Must not panic or surface the error in any way
	cleaner.Cleanup(context.Background(), "https://files.example.com/ebook-pdf/a.pdf")

	assert.Equal(t, []string{"a.pdf"}, store.removed)
}
