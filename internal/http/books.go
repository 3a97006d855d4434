package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yu1chiro/elib-smantiara/internal/audit"
	"github.com/Yu1chiro/elib-smantiara/internal/database/books"
	"github.com/Yu1chiro/elib-smantiara/internal/entities"
)

// BookStore defines the repository operations the catalog endpoints need.
type BookStore interface {
	ListAll() ([]entities.Book, error)
	ListPage(page, limit int) ([]entities.Book, books.Pagination, error)
	Create(attrs books.BookAttrs) (*entities.Book, error)
	Update(ctx context.Context, id uint, attrs books.BookAttrs, oldPDFURL string) error
	Delete(ctx context.Context, id uint) error
}

// BooksController serves the catalog CRUD endpoints.
type BooksController struct {
	store        BookStore
	auditService *audit.Service
}

// NewBooksController creates the catalog controller. The audit service may
// be nil.
func NewBooksController(store BookStore, auditService *audit.Service) *BooksController {
	return &BooksController{store: store, auditService: auditService}
}

// bookPayload mirrors the JSON body of create and update requests. old_pdf_url
// is only meaningful on update: when present and different from pdf_url the
// previously referenced storage object is cleaned up.
type bookPayload struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	ThumbnailBase64 string `json:"thumbnail_base64"`
	PDFURL          string `json:"pdf_url"`
	OldPDFURL       string `json:"old_pdf_url"`
}

func (p bookPayload) attrs() books.BookAttrs {
	return books.BookAttrs{
		Title:           p.Title,
		Description:     p.Description,
		ThumbnailBase64: p.ThumbnailBase64,
		PDFURL:          p.PDFURL,
	}
}

// GetPublicBooks returns the whole catalog, newest first. No auth.
// GET /api/public/books
func (bc *BooksController) GetPublicBooks(c *gin.Context) {
	allBooks, err := bc.store.ListAll()
	if err != nil {
		respondInternalError(c, err, "list public books")
		return
	}
	if allBooks == nil {
		allBooks = []entities.Book{}
	}
	c.JSON(http.StatusOK, allBooks)
}

// ListBooks returns one page of the catalog plus pagination metadata.
// GET /api/books?page=N&limit=M
func (bc *BooksController) ListBooks(c *gin.Context) {
	page := queryIntDefault(c, "page", 1)
	limit := queryIntDefault(c, "limit", books.DefaultPageLimit)

	pageBooks, pagination, err := bc.store.ListPage(page, limit)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if pageBooks == nil {
		pageBooks = []entities.Book{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"books":      pageBooks,
		"pagination": pagination,
	})
}

// CreateBook inserts a new catalog entry.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var payload bookPayload
	// A malformed body leaves the payload empty and fails required-field
	// validation below, same as missing fields.
	_ = c.ShouldBindJSON(&payload)

	book, err := bc.store.Create(payload.attrs())
	if err != nil {
		if errors.Is(err, books.ErrValidation) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	bc.logMutation(c, entities.AuditEventCreate, "book_create", book.Title, &book.ID, nil)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "book created",
		"book":    book,
	})
}

// UpdateBook overwrites every mutable field of a book. There is no partial
// update: fields omitted from the body are written back empty.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload bookPayload
	_ = c.ShouldBindJSON(&payload)

	if err := bc.store.Update(c.Request.Context(), id, payload.attrs(), payload.OldPDFURL); err != nil {
		bc.logMutation(c, entities.AuditEventUpdate, "book_update", payload.Title, &id, err)
		respondInternalError(c, err, "update book")
		return
	}

	bc.logMutation(c, entities.AuditEventUpdate, "book_update", payload.Title, &id, nil)
	respondSuccess(c, "book updated")
}

// DeleteBook removes a book and best-effort deletes its PDF object.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		bc.logMutation(c, entities.AuditEventDelete, "book_delete", "", &id, err)
		respondInternalError(c, err, "delete book")
		return
	}

	bc.logMutation(c, entities.AuditEventDelete, "book_delete", "", &id, nil)
	respondSuccess(c, "book deleted")
}

func (bc *BooksController) logMutation(c *gin.Context, eventType entities.AuditEventType, action, description string, bookID *uint, err error) {
	if bc.auditService == nil {
		return
	}
	bc.auditService.LogMutation(eventType, action, description, bookID, c.ClientIP(), err)
}
