package service

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/emzola/athenaeum/clients"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
)

type books interface {
	CreateBook(r *http.Request) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	ListBooks(search string, sectionID int64, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UpdateBook(bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error)
	UpdateBookCover(bookID int64, r *http.Request) (*data.Book, error)
	UpdateBookDocument(bookID int64, r *http.Request) (*data.Book, error)
	DeleteBook(bookID int64) error
}

// supportedDocumentTypes lists the e-book document formats accepted for
// upload.
var supportedDocumentTypes = []string{
	"application/pdf",
	"application/epub+zip",
	"application/x-mobipocket-ebook",
	"application/vnd.oasis.opendocument.text",
	"text/rtf",
}

// supportedImageTypes lists the image formats accepted for cover uploads.
var supportedImageTypes = []string{
	"image/jpeg",
	"image/png",
}

// CreateBook service creates a new catalog entry. The entry is a multipart
// form because a cover image and, for e-books, a document file may be
// attached alongside the metadata fields.
func (s *service) CreateBook(r *http.Request) (*data.Book, error) {
	err := r.ParseMultipartForm(5000)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	form := dto.CreateBookForm{
		BookID:  r.FormValue("book_id"),
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Ebook:   r.FormValue("ebook") == "true",
	}
	if authors := r.FormValue("authors"); authors != "" {
		form.Authors = strings.Split(authors, ",")
		for i := range form.Authors {
			form.Authors[i] = strings.TrimSpace(form.Authors[i])
		}
	}
	if sectionID := r.FormValue("section_id"); sectionID != "" {
		form.SectionID, err = strconv.ParseInt(sectionID, 10, 64)
		if err != nil {
			return nil, ErrBadRequest
		}
	}
	book := &data.Book{
		BookID:    form.BookID,
		Title:     form.Title,
		Content:   form.Content,
		Authors:   form.Authors,
		SectionID: form.SectionID,
		Ebook:     form.Ebook,
		Available: true,
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	// Upload the cover image and e-book document if attached to the form
	coverPath, err := s.uploadFormFile(r, "cover", supportedImageTypes, data.ScopeCover)
	if err != nil {
		return nil, err
	}
	book.CoverPath = coverPath
	if book.Ebook {
		documentPath, err := s.uploadFormFile(r, "document", supportedDocumentTypes, data.ScopeDocument)
		if err != nil {
			return nil, err
		}
		book.DocumentPath = documentPath
	}
	err = s.repo.CreateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("book_id", "a book with this book id already exists")
			ErrDuplicateRecord = s.failedValidation(v.Errors)
			return nil, ErrDuplicateRecord
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("section", "section does not exist")
			ErrFailedValidation = s.failedValidation(v.Errors)
			return nil, ErrFailedValidation
		default:
			return nil, err
		}
	}
	return book, nil
}

// uploadFormFile validates and uploads a single optional form file, returning
// the stored asset's path. It returns an empty path when the form carries no
// file under the given name.
func (s *service) uploadFormFile(r *http.Request, name string, supportedMediaType []string, scope string) (string, error) {
	file, fileHeader, err := r.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", ErrBadRequest
	}
	defer file.Close()
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return "", err
	}
	if validMime := validator.Mime(mtype, supportedMediaType...); !validMime {
		return "", ErrUnsupportedMediaType
	}
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return "", err
	}
	return s.uploadFileToS3(s3Client, buffer, mtype, fileHeader, scope)
}

// GetBook service retrieves the details of a catalog entry.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBookByID(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// ListBooks service retrieves a list of paginated catalog entries. The list
// can be searched by title and filtered by section.
func (s *service) ListBooks(search string, sectionID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	books, metadata, err := s.repo.GetAllBooks(search, sectionID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return books, metadata, nil
}

// UpdateBook service updates the details of a specific catalog entry.
func (s *service) UpdateBook(bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error) {
	// Retrieve the book by its ID
	book, err := s.repo.GetBookByID(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	// Update only fields with new data
	if requestBody.BookID != nil {
		book.BookID = *requestBody.BookID
	}
	if requestBody.Title != nil {
		book.Title = *requestBody.Title
	}
	if requestBody.Content != nil {
		book.Content = *requestBody.Content
	}
	if requestBody.Authors != nil {
		book.Authors = requestBody.Authors
	}
	if requestBody.SectionID != nil {
		book.SectionID = *requestBody.SectionID
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("book_id", "a book with this book id already exists")
			ErrDuplicateRecord = s.failedValidation(v.Errors)
			return nil, ErrDuplicateRecord
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("section", "section does not exist")
			ErrFailedValidation = s.failedValidation(v.Errors)
			return nil, ErrFailedValidation
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// UpdateBookCover service uploads a cover image for a catalog entry.
func (s *service) UpdateBookCover(bookID int64, r *http.Request) (*data.Book, error) {
	return s.updateBookAsset(bookID, r, "cover", supportedImageTypes, data.ScopeCover)
}

// UpdateBookDocument service uploads the e-book document for a catalog entry.
func (s *service) UpdateBookDocument(bookID int64, r *http.Request) (*data.Book, error) {
	book, err := s.repo.GetBookByID(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	// Only e-book entries carry a document
	if !book.Ebook {
		return nil, ErrNotPermitted
	}
	return s.updateBookAsset(bookID, r, "document", supportedDocumentTypes, data.ScopeDocument)
}

func (s *service) updateBookAsset(bookID int64, r *http.Request, name string, supportedMediaType []string, scope string) (*data.Book, error) {
	book, err := s.repo.GetBookByID(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	err = r.ParseMultipartForm(5000)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	path, err := s.uploadFormFile(r, name, supportedMediaType, scope)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrBadRequest
	}
	switch scope {
	case data.ScopeCover:
		book.CoverPath = path
	case data.ScopeDocument:
		book.DocumentPath = path
	}
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// DeleteBook service deletes a catalog entry. An entry currently issued to
// an account cannot be deleted.
func (s *service) DeleteBook(bookID int64) error {
	err := s.repo.DeleteBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		case errors.Is(err, repository.ErrBookAssigned):
			return ErrBookAssigned
		default:
			return err
		}
	}
	return nil
}
