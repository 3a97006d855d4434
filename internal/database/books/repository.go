// Package books provides database operations for the book catalog.
//
// The repository composes the relational store with the object-reference
// cleaner: replacing or deleting a PDF reference schedules a best-effort
// delete of the now-orphaned storage object. The database mutation is always
// the source of truth; cleanup outcomes never change it.
package books

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/Yu1chiro/elib-smantiara/internal/entities"
)

var (
	// ErrValidation is the base error for missing required create fields.
	ErrValidation = errors.New("validation failed")

	ErrTitleRequired     = fmt.Errorf("%w: title is required", ErrValidation)
	ErrThumbnailRequired = fmt.Errorf("%w: thumbnail_base64 is required", ErrValidation)
	ErrPDFURLRequired    = fmt.Errorf("%w: pdf_url is required", ErrValidation)

	ErrNotFound = errors.New("book not found")
)

// DefaultPageLimit is the page size used when the caller supplies none.
const DefaultPageLimit = 5

// ObjectCleaner removes the storage object behind a public URL. Implementations
// must be best-effort: no error channel, failures handled internally.
type ObjectCleaner interface {
	Cleanup(ctx context.Context, rawURL string)
}

// BookAttrs carries the caller-supplied fields for create and update.
type BookAttrs struct {
	Title           string
	Description     string
	ThumbnailBase64 string
	PDFURL          string
}

// Pagination describes a page of the catalog listing.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalBooks  int64 `json:"totalBooks"`
}

// Repository handles all book catalog database operations.
type Repository struct {
	db      *gorm.DB
	cleaner ObjectCleaner
}

// NewRepository creates a new books repository. The cleaner may be nil, in
// which case orphaned objects are left for the background sweeper.
func NewRepository(db *gorm.DB, cleaner ObjectCleaner) *Repository {
	return &Repository{db: db, cleaner: cleaner}
}

// ListAll returns every book, newest first. Used by the public endpoint.
func (r *Repository) ListAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("created_at DESC").Find(&books).Error
	return books, err
}

// ListPage returns one page of books, newest first, plus pagination metadata.
// Non-positive page or limit values degrade to defaults rather than erroring.
func (r *Repository) ListPage(page, limit int) ([]entities.Book, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}

	var total int64
	if err := r.db.Model(&entities.Book{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var books []entities.Book
	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&books).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	pagination := Pagination{
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		TotalBooks:  total,
	}
	return books, pagination, nil
}

// GetByID retrieves a single book.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book with a server-assigned id and creation time.
func (r *Repository) Create(attrs BookAttrs) (*entities.Book, error) {
	if attrs.Title == "" {
		return nil, ErrTitleRequired
	}
	if attrs.ThumbnailBase64 == "" {
		return nil, ErrThumbnailRequired
	}
	if attrs.PDFURL == "" {
		return nil, ErrPDFURLRequired
	}

	book := &entities.Book{
		Title:           attrs.Title,
		Description:     attrs.Description,
		ThumbnailBase64: attrs.ThumbnailBase64,
		PDFURL:          attrs.PDFURL,
	}
	if err := r.db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// Update overwrites all mutable fields of a book. There are no partial-update
// semantics: omitted fields are written back as empty, matching the contract
// callers rely on. When oldPDFURL is set and differs from the new pdf_url the
// previous object is cleaned up best-effort; cleanup failure never fails the
// update.
func (r *Repository) Update(ctx context.Context, id uint, attrs BookAttrs, oldPDFURL string) error {
	err := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"title":            attrs.Title,
		"description":      attrs.Description,
		"thumbnail_base64": attrs.ThumbnailBase64,
		"pdf_url":          attrs.PDFURL,
	}).Error
	if err != nil {
		return err
	}

	if r.cleaner != nil && oldPDFURL != "" && oldPDFURL != attrs.PDFURL {
		r.cleaner.Cleanup(ctx, oldPDFURL)
	}
	return nil
}

// Delete removes a book inside a transaction: look up the current pdf_url,
// delete the row, attempt storage cleanup, then commit. A missing row returns
// ErrNotFound and rolls back. The cleanup attempt sits before the commit but
// cannot fail it; once the row delete succeeds the commit is decided.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Select("id", "pdf_url").First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&entities.Book{}, id).Error; err != nil {
			return err
		}

		if r.cleaner != nil {
			r.cleaner.Cleanup(ctx, book.PDFURL)
		}
		return nil
	})
}

// ReferencedPDFURLs returns the pdf_url of every book. Used by the orphan
// sweeper to decide which storage objects are still live.
func (r *Repository) ReferencedPDFURLs() ([]string, error) {
	var urls []string
	err := r.db.Model(&entities.Book{}).Pluck("pdf_url", &urls).Error
	return urls, err
}

// Count returns the total number of books.
func (r *Repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entities.Book{}).Count(&total).Error
	return total, err
}
