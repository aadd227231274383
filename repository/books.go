package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/athenaeum/data"
	"github.com/lib/pq"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBookByID(ID int64) (*data.Book, error)
	GetAllBooks(search string, sectionID int64, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UpdateBook(book *data.Book) error
	DeleteBook(ID int64) error
	AssignBook(bookID int64, userID int64, issueDate time.Time, returnDate time.Time) error
	ReleaseBook(bookID int64) error
	CountBooks() (int64, error)
	CountBooksForSection(sectionID int64) (int64, error)
}

const bookColumns = `id, created_at, book_id, title, content, authors, section_id, available, cover_path, document_path, ebook, issued_to, issue_date, return_date, version`

// CreateBook creates a new catalog entry.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (book_id, title, content, authors, section_id, available, cover_path, document_path, ebook)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version`
	args := []interface{}{book.BookID, book.Title, book.Content, pq.Array(book.Authors), book.SectionID, book.Available, book.CoverPath, book.DocumentPath, book.Ebook}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&book.ID,
		&book.CreatedAt,
		&book.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "books_book_id_key"`:
			return ErrDuplicateRecord
		case err.Error() == `pq: insert or update on table "books" violates foreign key constraint "books_section_id_fkey"`:
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// GetBookByID retrieves a catalog entry by its ID.
func (r *repository) GetBookByID(ID int64) (*data.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, ID).Scan(
		&book.ID,
		&book.CreatedAt,
		&book.BookID,
		&book.Title,
		&book.Content,
		pq.Array(&book.Authors),
		&book.SectionID,
		&book.Available,
		&book.CoverPath,
		&book.DocumentPath,
		&book.Ebook,
		&book.IssuedTo,
		&book.IssueDate,
		&book.ReturnDate,
		&book.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves a paginated list of catalog entries. Records can be
// searched by title and filtered by section.
func (r *repository) GetAllBooks(search string, sectionID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+bookColumns+`
		FROM books
		WHERE (title ILIKE '%%' || $1 || '%%' OR $1 = '')
		AND (section_id = $2 OR $2 = 0)
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{search, sectionID, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
			&totalRecords,
			&book.ID,
			&book.CreatedAt,
			&book.BookID,
			&book.Title,
			&book.Content,
			pq.Array(&book.Authors),
			&book.SectionID,
			&book.Available,
			&book.CoverPath,
			&book.DocumentPath,
			&book.Ebook,
			&book.IssuedTo,
			&book.IssueDate,
			&book.ReturnDate,
			&book.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// UpdateBook updates a catalog entry's descriptive fields.
func (r *repository) UpdateBook(book *data.Book) error {
	query := `
		UPDATE books
		SET book_id = $1, title = $2, content = $3, authors = $4, section_id = $5, cover_path = $6, document_path = $7, version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version`
	args := []interface{}{
		book.BookID,
		book.Title,
		book.Content,
		pq.Array(book.Authors),
		book.SectionID,
		book.CoverPath,
		book.DocumentPath,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "books_book_id_key"`:
			return ErrDuplicateRecord
		case err.Error() == `pq: insert or update on table "books" violates foreign key constraint "books_section_id_fkey"`:
			return ErrRecordNotFound
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteBook deletes a catalog entry. Deletion is refused while the book is
// assigned to an account.
func (r *repository) DeleteBook(ID int64) error {
	if ID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM books
		WHERE id = $1 AND issued_to IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		// Distinguish a missing record from a record that survived the
		// issued_to guard.
		_, err := r.GetBookByID(ID)
		if err != nil {
			return err
		}
		return ErrBookAssigned
	}
	return nil
}

// AssignBook atomically assigns a book to an account. The conditional WHERE
// clause is the single point that enforces "at most one holder": two
// concurrent assignments cannot both match issued_to IS NULL.
func (r *repository) AssignBook(bookID int64, userID int64, issueDate time.Time, returnDate time.Time) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		UPDATE books
		SET issued_to = $1, issue_date = $2, return_date = $3, available = false, version = version + 1
		WHERE id = $4 AND (issued_to IS NULL OR issued_to = $1)`
	args := []interface{}{userID, issueDate, returnDate, bookID}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		_, err := r.GetBookByID(bookID)
		if err != nil {
			return err
		}
		return ErrBookAssigned
	}
	return nil
}

// ReleaseBook clears a book's assignment fields and marks it available.
func (r *repository) ReleaseBook(bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		UPDATE books
		SET issued_to = NULL, issue_date = NULL, return_date = NULL, available = true, version = version + 1
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, bookID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CountBooks counts all catalog entries.
func (r *repository) CountBooks() (int64, error) {
	query := `
		SELECT count(*)
		FROM books`
	var count int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountBooksForSection counts catalog entries referencing a section.
func (r *repository) CountBooksForSection(sectionID int64) (int64, error) {
	query := `
		SELECT count(*)
		FROM books
		WHERE section_id = $1`
	var count int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, sectionID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
