package data

import "github.com/emzola/athenaeum/internal/validator"

// Section defines a named grouping for catalog entries. A section cannot be
// deleted while any book still references it.
type Section struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BooksCount  int64  `json:"books_count,omitempty"`
	Version     int32  `json:"-"`
}

func ValidateSection(v *validator.Validator, section *Section) {
	v.Check(section.Name != "", "name", "must be provided")
	v.Check(len(section.Name) <= 200, "name", "must not be more than 200 bytes long")
	v.Check(section.Description != "", "description", "must be provided")
	v.Check(len(section.Description) <= 2000, "description", "must not be more than 2000 bytes long")
}
