package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/athenaeum/data"
)

type loans interface {
	CreateLoan(loan *data.Loan) error
	GetLoanByID(ID int64) (*data.Loan, error)
	GetAllLoans(status string, filters data.Filters) ([]*data.Loan, data.Metadata, error)
	GetAllLoansForUser(userID int64, status string, filters data.Filters) ([]*data.Loan, data.Metadata, error)
	GetOpenLoanForUserAndBook(userID int64, bookID int64) (*data.Loan, error)
	ReturnLoan(ID int64, returnDate time.Time) (*data.Loan, error)
	CountOpenLoans() (int64, error)
	CountOpenLoansForUser(userID int64) (int64, error)
}

const loanColumns = `id, created_at, user_id, book_id, issue_date, due_date, return_date, status, version`

// CreateLoan creates a new lending ledger entry.
func (r *repository) CreateLoan(loan *data.Loan) error {
	query := `
		INSERT INTO loans (user_id, book_id, issue_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version`
	args := []interface{}{loan.UserID, loan.BookID, loan.IssueDate, loan.DueDate, loan.Status}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&loan.ID,
		&loan.CreatedAt,
		&loan.Version,
	)
	if err != nil {
		switch {
		case err.Error() == `pq: insert or update on table "loans" violates foreign key constraint "loans_user_id_fkey"`:
			return ErrRecordNotFound
		case err.Error() == `pq: insert or update on table "loans" violates foreign key constraint "loans_book_id_fkey"`:
			return ErrRecordNotFound
		case err.Error() == `pq: duplicate key value violates unique constraint "loans_book_open_idx"`:
			return ErrBookAssigned
		default:
			return err
		}
	}
	return nil
}

// GetLoanByID retrieves a lending ledger entry by its ID.
func (r *repository) GetLoanByID(ID int64) (*data.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1`
	var loan data.Loan
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, ID).Scan(
		&loan.ID,
		&loan.CreatedAt,
		&loan.UserID,
		&loan.BookID,
		&loan.IssueDate,
		&loan.DueDate,
		&loan.ReturnDate,
		&loan.Status,
		&loan.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &loan, nil
}

// GetAllLoans retrieves a paginated list of lending ledger entries. Records
// can be filtered by status.
func (r *repository) GetAllLoans(status string, filters data.Filters) ([]*data.Loan, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+loanColumns+`
		FROM loans
		WHERE (LOWER(status) = LOWER($1) OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{status, filters.Limit(), filters.Offset()}
	return r.getLoans(query, filters, args...)
}

// GetAllLoansForUser retrieves a paginated list of ledger entries for an
// account. Records can be filtered by status.
func (r *repository) GetAllLoansForUser(userID int64, status string, filters data.Filters) ([]*data.Loan, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), `+loanColumns+`
		FROM loans
		WHERE user_id = $1 AND (LOWER(status) = LOWER($2) OR $2 = '')
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{userID, status, filters.Limit(), filters.Offset()}
	return r.getLoans(query, filters, args...)
}

func (r *repository) getLoans(query string, filters data.Filters, args ...interface{}) ([]*data.Loan, data.Metadata, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	loans := []*data.Loan{}
	for rows.Next() {
		var loan data.Loan
		err := rows.Scan(
			&totalRecords,
			&loan.ID,
			&loan.CreatedAt,
			&loan.UserID,
			&loan.BookID,
			&loan.IssueDate,
			&loan.DueDate,
			&loan.ReturnDate,
			&loan.Status,
			&loan.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		loans = append(loans, &loan)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return loans, metadata, nil
}

// GetOpenLoanForUserAndBook retrieves the open ledger entry for an
// (account, book) pair, if one exists.
func (r *repository) GetOpenLoanForUserAndBook(userID int64, bookID int64) (*data.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE user_id = $1 AND book_id = $2 AND return_date IS NULL`
	var loan data.Loan
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(
		&loan.ID,
		&loan.CreatedAt,
		&loan.UserID,
		&loan.BookID,
		&loan.IssueDate,
		&loan.DueDate,
		&loan.ReturnDate,
		&loan.Status,
		&loan.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &loan, nil
}

// ReturnLoan closes a ledger entry. The return_date IS NULL guard makes the
// return date immutable: a second return cannot overwrite the first.
func (r *repository) ReturnLoan(ID int64, returnDate time.Time) (*data.Loan, error) {
	if ID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		UPDATE loans
		SET return_date = $1, status = $2, version = version + 1
		WHERE id = $3 AND return_date IS NULL
		RETURNING ` + loanColumns
	args := []interface{}{returnDate, data.LoanStatusReturned, ID}
	var loan data.Loan
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&loan.ID,
		&loan.CreatedAt,
		&loan.UserID,
		&loan.BookID,
		&loan.IssueDate,
		&loan.DueDate,
		&loan.ReturnDate,
		&loan.Status,
		&loan.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Distinguish a missing entry from one already returned.
			_, err := r.GetLoanByID(ID)
			if err != nil {
				return nil, err
			}
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return &loan, nil
}

// CountOpenLoans counts ledger entries with no return date.
func (r *repository) CountOpenLoans() (int64, error) {
	query := `
		SELECT count(*)
		FROM loans
		WHERE return_date IS NULL`
	var count int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountOpenLoansForUser counts an account's ledger entries with no return date.
func (r *repository) CountOpenLoansForUser(userID int64) (int64, error) {
	query := `
		SELECT count(*)
		FROM loans
		WHERE user_id = $1 AND return_date IS NULL`
	var count int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
