package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/athenaeum/data"
)

type requests interface {
	CreateRequest(request *data.Request) error
	GetRequestByID(ID int64) (*data.Request, error)
	GetAllRequests(status string, filters data.Filters) ([]*data.Request, data.Metadata, error)
	GetAllRequestsForUser(userID int64, status string, filters data.Filters) ([]*data.Request, data.Metadata, error)
	CountActiveRequestsForUser(userID int64) (int64, error)
	UpdateRequest(request *data.Request) error
	DeleteRequest(ID int64) error
	DeleteRequestsForBook(bookID int64, userID int64) error
}

const requestColumns = `id, created_at, user_id, book_id, status, version`

// CreateRequest creates a new borrow request. A partial unique index on
// (user_id, book_id) over pending and granted rows enforces at most one
// active request per pair.
func (r *repository) CreateRequest(request *data.Request) error {
	query := `
		INSERT INTO requests (user_id, book_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version`
	args := []interface{}{request.UserID, request.BookID, request.Status}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&request.ID,
		&request.CreatedAt,
		&request.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "requests_user_book_active_idx"`:
			return ErrDuplicateRecord
		case err.Error() == `pq: insert or update on table "requests" violates foreign key constraint "requests_user_id_fkey"`:
			return ErrRecordNotFound
		case err.Error() == `pq: insert or update on table "requests" violates foreign key constraint "requests_book_id_fkey"`:
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// GetRequestByID retrieves a borrow request by its ID.
func (r *repository) GetRequestByID(ID int64) (*data.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE id = $1`
	var request data.Request
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, ID).Scan(
		&request.ID,
		&request.CreatedAt,
		&request.UserID,
		&request.BookID,
		&request.Status,
		&request.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &request, nil
}

// GetAllRequests retrieves a paginated list of borrow requests. Records can
// be filtered by status.
func (r *repository) GetAllRequests(status string, filters data.Filters) ([]*data.Request, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+requestColumns+`
		FROM requests
		WHERE (LOWER(status) = LOWER($1) OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{status, filters.Limit(), filters.Offset()}
	return r.getRequests(query, filters, args...)
}

// GetAllRequestsForUser retrieves a paginated list of an account's borrow
// requests. Records can be filtered by status.
func (r *repository) GetAllRequestsForUser(userID int64, status string, filters data.Filters) ([]*data.Request, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+requestColumns+`
		FROM requests
		WHERE user_id = $1 AND (LOWER(status) = LOWER($2) OR $2 = '')
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{userID, status, filters.Limit(), filters.Offset()}
	return r.getRequests(query, filters, args...)
}

func (r *repository) getRequests(query string, filters data.Filters, args ...interface{}) ([]*data.Request, data.Metadata, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	requests := []*data.Request{}
	for rows.Next() {
		var request data.Request
		err := rows.Scan(
			&totalRecords,
			&request.ID,
			&request.CreatedAt,
			&request.UserID,
			&request.BookID,
			&request.Status,
			&request.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		requests = append(requests, &request)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return requests, metadata, nil
}

// CountActiveRequestsForUser counts an account's pending and granted requests.
func (r *repository) CountActiveRequestsForUser(userID int64) (int64, error) {
	query := `
		SELECT count(*)
		FROM requests
		WHERE user_id = $1 AND status IN ($2, $3)`
	args := []interface{}{userID, data.RequestStatusPending, data.RequestStatusGranted}
	var count int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateRequest updates a borrow request record.
func (r *repository) UpdateRequest(request *data.Request) error {
	query := `
		UPDATE requests
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version`
	args := []interface{}{request.Status, request.ID, request.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&request.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteRequest deletes a borrow request record.
func (r *repository) DeleteRequest(ID int64) error {
	if ID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM requests
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

// DeleteRequestsForBook deletes an account's request records for a book. It
// is a no-op when no matching records exist.
func (r *repository) DeleteRequestsForBook(bookID int64, userID int64) error {
	query := `
		DELETE FROM requests
		WHERE book_id = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, bookID, userID)
	return err
}
