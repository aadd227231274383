package dto

import "github.com/emzola/athenaeum/data"

// CreateBookForm defines the multipart form fields for CreateBook service.
// Catalog entries are created via multipart because they may carry a cover
// image and an e-book document alongside the metadata fields.
type CreateBookForm struct {
	BookID    string
	Title     string
	Content   string
	Authors   []string
	SectionID int64
	Ebook     bool
}

// UpdateBookRequestBody defines a request body for UpdateBook service.
type UpdateBookRequestBody struct {
	BookID    *string  `json:"book_id"`
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Authors   []string `json:"authors"`
	SectionID *int64   `json:"section_id"`
}

// QsListBooks defines query strings for ListBooks service.
type QsListBooks struct {
	Search    string
	SectionID int64
	Filters   data.Filters
}
