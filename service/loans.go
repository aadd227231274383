package service

import (
	"errors"
	"time"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
)

type loans interface {
	IssueBook(requestBody dto.CreateLoanRequestBody) (*data.Loan, error)
	GetLoan(loanID int64) (*data.Loan, error)
	ListLoans(status string, filters data.Filters) ([]*data.Loan, data.Metadata, error)
	ReturnBook(loanID int64, returnDate *time.Time) (*data.Loan, error)
	BulkReturnBooks(requestBody dto.BulkReturnRequestBody) ([]dto.BulkReturnResult, error)
	RevokeBook(bookID int64) error
}

// IssueBook service issues a book directly to an account, bypassing the
// request workflow. A book that is already assigned cannot be issued again,
// so an issued book always has exactly one open ledger entry.
func (s *service) IssueBook(requestBody dto.CreateLoanRequestBody) (*data.Loan, error) {
	user, err := s.repo.GetUserByID(requestBody.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	book, err := s.repo.GetBookByID(requestBody.BookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if book.Issued() {
		return nil, ErrBookAssigned
	}
	issueDate := time.Now()
	dueDate := requestBody.DueDate
	if dueDate.IsZero() {
		dueDate = issueDate.Add(data.LoanPeriod)
	}
	loan := &data.Loan{
		UserID:    user.ID,
		BookID:    book.ID,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Status:    data.LoanStatusIssued,
	}
	v := validator.New()
	if data.ValidateLoan(v, loan); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	err = s.repo.AssignBook(book.ID, user.ID, issueDate, dueDate)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookAssigned):
			return nil, ErrBookAssigned
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	err = s.repo.CreateLoan(loan)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// GetLoan service retrieves the details of a ledger entry. The status is
// derived at read time, so an entry past its due date reads as overdue.
func (s *service) GetLoan(loanID int64) (*data.Loan, error) {
	loan, err := s.repo.GetLoanByID(loanID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	loan.Status = loan.CurrentStatus(time.Now())
	return loan, nil
}

// ListLoans service retrieves a paginated list of ledger entries. Records
// can be filtered by status.
func (s *service) ListLoans(status string, filters data.Filters) ([]*data.Loan, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	loans, metadata, err := s.repo.GetAllLoans(status, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	now := time.Now()
	for _, loan := range loans {
		loan.Status = loan.CurrentStatus(now)
	}
	return loans, metadata, nil
}

// ReturnBook service closes a ledger entry. The stored return date is
// immutable: returning an already-returned loan is a conflict, never an
// overwrite. Closing the entry releases the book and deletes the account's
// requests for it, freeing the quota slot.
func (s *service) ReturnBook(loanID int64, returnDate *time.Time) (*data.Loan, error) {
	rd := time.Now()
	if returnDate != nil {
		rd = *returnDate
	}
	loan, err := s.repo.ReturnLoan(loanID, rd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	err = s.repo.ReleaseBook(loan.BookID)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, err
	}
	err = s.repo.DeleteRequestsForBook(loan.BookID, loan.UserID)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// BulkReturnBooks service returns several loans in one call. Returns are
// best effort: a loan that is missing or already returned is reported in its
// result entry without rolling back the returns that succeeded.
func (s *service) BulkReturnBooks(requestBody dto.BulkReturnRequestBody) ([]dto.BulkReturnResult, error) {
	v := validator.New()
	v.Check(len(requestBody.LoanIDs) > 0, "loan_ids", "must be provided")
	v.Check(len(requestBody.LoanIDs) <= 100, "loan_ids", "must not contain more than 100 entries")
	if !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	results := make([]dto.BulkReturnResult, 0, len(requestBody.LoanIDs))
	for _, loanID := range requestBody.LoanIDs {
		result := dto.BulkReturnResult{LoanID: loanID}
		loan, err := s.ReturnBook(loanID, requestBody.ReturnDate)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Loan = loan
		}
		results = append(results, result)
	}
	return results, nil
}

// RevokeBook service forcibly takes an issued book back from its holder. The
// open ledger entry is closed, the book released and the holder's requests
// for it deleted, so the holder may request the book again afterwards.
func (s *service) RevokeBook(bookID int64) error {
	book, err := s.repo.GetBookByID(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if !book.Issued() {
		return ErrRecordNotFound
	}
	holderID := *book.IssuedTo
	loan, err := s.repo.GetOpenLoanForUserAndBook(holderID, book.ID)
	if err == nil {
		_, err = s.repo.ReturnLoan(loan.ID, time.Now())
		if err != nil && !errors.Is(err, repository.ErrEditConflict) {
			return err
		}
	} else if !errors.Is(err, repository.ErrRecordNotFound) {
		return err
	}
	err = s.repo.ReleaseBook(book.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	err = s.repo.DeleteRequestsForBook(book.ID, holderID)
	if err != nil {
		return err
	}
	return nil
}
