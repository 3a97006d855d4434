// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── books/           # Book catalog CRUD and the transactional delete path
//	└── audit/           # Admin action audit events
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./elib.db")
//
//	// Create domain-specific repositories
//	booksRepo := books.NewRepository(db.DB, cleaner)
//	auditRepo := audit.NewRepository(db.DB)
//
//	// Use repositories
//	book, err := booksRepo.Create(attrs)
//	page, err := booksRepo.ListPage(2, 5)
//
// The books repository composes the object-reference cleaner: replacing or
// deleting a PDF reference triggers a best-effort delete of the orphaned
// storage object. Cleanup failures never affect the database outcome.
package database
