package config

// Default paths and object storage names
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./elib.db"

	// DefaultPDFBucket is the object storage bucket holding book PDFs.
	// Object keys are derived from the public URLs stored on book rows.
	DefaultPDFBucket = "ebook-pdf"
)
