package dto

import (
	"time"

	"github.com/emzola/athenaeum/data"
)

// CreateLoanRequestBody defines a request body for IssueBook service.
type CreateLoanRequestBody struct {
	UserID  int64     `json:"user_id"`
	BookID  int64     `json:"book_id"`
	DueDate time.Time `json:"due_date"`
}

// ReturnLoanRequestBody defines a request body for ReturnBook service.
type ReturnLoanRequestBody struct {
	ReturnDate *time.Time `json:"return_date"`
}

// BulkReturnRequestBody defines a request body for BulkReturnBooks service.
type BulkReturnRequestBody struct {
	LoanIDs    []int64    `json:"loan_ids"`
	ReturnDate *time.Time `json:"return_date"`
}

// BulkReturnResult reports the per-loan outcome of a bulk return. Loans that
// were already returned or missing are reported without rolling back the
// returns that succeeded.
type BulkReturnResult struct {
	LoanID int64      `json:"loan_id"`
	Loan   *data.Loan `json:"loan,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// QsListLoans defines query strings for ListLoans service.
type QsListLoans struct {
	Status  string
	Filters data.Filters
}
