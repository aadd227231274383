package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/athenaeum/data"
)

type feedback interface {
	CreateFeedback(feedback *data.Feedback) error
	GetFeedbackByID(ID int64) (*data.Feedback, error)
	GetAllFeedback(bookID int64, filters data.Filters) ([]*data.Feedback, data.Metadata, error)
	DeleteFeedback(ID int64) error
}

const feedbackColumns = `id, created_at, user_id, book_id, rating, comment, version`

// CreateFeedback creates a new feedback record.
func (r *repository) CreateFeedback(feedback *data.Feedback) error {
	query := `
		INSERT INTO feedback (user_id, book_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version`
	args := []interface{}{feedback.UserID, feedback.BookID, feedback.Rating, feedback.Comment}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&feedback.ID,
		&feedback.CreatedAt,
		&feedback.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "feedback" violates foreign key constraint "feedback_book_id_fkey"`:
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// GetFeedbackByID retrieves a feedback record by its ID.
func (r *repository) GetFeedbackByID(ID int64) (*data.Feedback, error) {
	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE id = $1`
	var feedback data.Feedback
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, ID).Scan(
		&feedback.ID,
		&feedback.CreatedAt,
		&feedback.UserID,
		&feedback.BookID,
		&feedback.Rating,
		&feedback.Comment,
		&feedback.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &feedback, nil
}

// GetAllFeedback retrieves a paginated list of feedback records. Records can
// be filtered by catalog entry.
func (r *repository) GetAllFeedback(bookID int64, filters data.Filters) ([]*data.Feedback, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+feedbackColumns+`
		FROM feedback
		WHERE (book_id = $1 OR $1 = 0)
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{bookID, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	feedbackList := []*data.Feedback{}
	for rows.Next() {
		var feedback data.Feedback
		err := rows.Scan(
			&totalRecords,
			&feedback.ID,
			&feedback.CreatedAt,
			&feedback.UserID,
			&feedback.BookID,
			&feedback.Rating,
			&feedback.Comment,
			&feedback.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		feedbackList = append(feedbackList, &feedback)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return feedbackList, metadata, nil
}

// DeleteFeedback deletes a feedback record.
func (r *repository) DeleteFeedback(ID int64) error {
	if ID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM feedback
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
