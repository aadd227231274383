package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/athenaeum/data"
)

type sections interface {
	CreateSection(section *data.Section) error
	GetSectionByID(ID int64) (*data.Section, error)
	GetAllSections(filters data.Filters) ([]*data.Section, data.Metadata, error)
	UpdateSection(section *data.Section) error
	DeleteSection(ID int64) error
	CountSections() (int64, error)
}

// CreateSection creates a new section.
func (r *repository) CreateSection(section *data.Section) error {
	query := `
		INSERT INTO sections (name, description)
		VALUES ($1, $2)
		RETURNING id, version`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, section.Name, section.Description).Scan(
		&section.ID,
		&section.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "sections_name_key"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetSectionByID retrieves a section by its ID, along with the number of
// catalog entries referencing it.
func (r *repository) GetSectionByID(ID int64) (*data.Section, error) {
	query := `
		SELECT sections.id, sections.name, sections.description, count(books.id), sections.version
		FROM sections
		LEFT JOIN books ON books.section_id = sections.id
		WHERE sections.id = $1
		GROUP BY sections.id`
	var section data.Section
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, ID).Scan(
		&section.ID,
		&section.Name,
		&section.Description,
		&section.BooksCount,
		&section.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &section, nil
}

// GetAllSections retrieves a paginated list of sections.
func (r *repository) GetAllSections(filters data.Filters) ([]*data.Section, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), sections.id, sections.name, sections.description, count(books.id), sections.version
		FROM sections
		LEFT JOIN books ON books.section_id = sections.id
		GROUP BY sections.id
		ORDER BY %s %s, sections.id ASC
		LIMIT $1 OFFSET $2`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	sections := []*data.Section{}
	for rows.Next() {
		var section data.Section
		err := rows.Scan(
			&totalRecords,
			&section.ID,
			&section.Name,
			&section.Description,
			&section.BooksCount,
			&section.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		sections = append(sections, &section)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return sections, metadata, nil
}

// UpdateSection updates a section record.
func (r *repository) UpdateSection(section *data.Section) error {
	query := `
		UPDATE sections
		SET name = $1, description = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version`
	args := []interface{}{section.Name, section.Description, section.ID, section.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&section.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "sections_name_key"`:
			return ErrDuplicateRecord
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteSection deletes a section record.
func (r *repository) DeleteSection(ID int64) error {
	if ID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM sections
		WHERE id = $1`
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
		return ErrRecordNotFound
	}
	return nil
}

// CountSections counts all section records.
func (r *repository) CountSections() (int64, error) {
	query := `
		SELECT count(*)
		FROM sections`
	var count int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
