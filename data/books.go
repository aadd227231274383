package data

import (
	"time"

	"github.com/emzola/athenaeum/internal/validator"
)

// Upload scopes decide the S3 key prefix and content disposition of a
// stored asset.
const (
	ScopeCover      = "cover"
	ScopeDocument   = "document"
	ScopeProfilePic = "profile_pic"
)

// Book defines a catalog entry: a physical book or an e-book. A non-nil
// IssuedTo means the copy is currently assigned to an account, in which case
// Available is always false and exactly one open loan exists for the book.
type Book struct {
	ID           int64      `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	BookID       string     `json:"book_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Authors      []string   `json:"authors"`
	SectionID    int64      `json:"section_id"`
	Available    bool       `json:"available"`
	CoverPath    string     `json:"cover_path,omitempty"`
	DocumentPath string     `json:"document_path,omitempty"`
	Ebook        bool       `json:"ebook"`
	IssuedTo     *int64     `json:"issued_to,omitempty"`
	IssueDate    *time.Time `json:"issue_date,omitempty"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	Version      int32      `json:"-"`
}

// Issued reports whether the book is currently assigned to an account.
func (b *Book) Issued() bool {
	return b.IssuedTo != nil
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.BookID != "", "book_id", "must be provided")
	v.Check(len(book.BookID) <= 100, "book_id", "must not be more than 100 bytes long")
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Content != "", "content", "must be provided")
	v.Check(len(book.Content) <= 5000, "content", "must not be more than 5000 bytes long")
	v.Check(book.Authors != nil, "authors", "must be provided")
	v.Check(len(book.Authors) >= 1, "authors", "must contain at least 1 author")
	v.Check(len(book.Authors) <= 5, "authors", "must not contain more than 5 authors")
	v.Check(validator.Unique(book.Authors), "authors", "must not contain duplicate values")
	v.Check(book.SectionID > 0, "section", "must be provided")
}
