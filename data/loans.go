package data

import (
	"time"

	"github.com/emzola/athenaeum/internal/validator"
)

// Loan ledger statuses. Issued and Returned are the only stored states;
// Overdue is derived at read time from the due date and is never written by
// the workflow engine. Requested survives from the legacy ledger format and
// is accepted on read but never written.
const (
	LoanStatusIssued    = "Issued"
	LoanStatusReturned  = "Returned"
	LoanStatusOverdue   = "Overdue"
	LoanStatusRequested = "Requested"
)

// LoanPeriod is the default lending period applied when a granted request
// issues a book.
const LoanPeriod = 30 * 24 * time.Hour

// Loan defines one issuance event in the lending ledger. The ledger is the
// record of truth for who holds a book; the issued_to column on books is a
// back-reference maintained in the same statement that opens or closes the
// loan. ReturnDate is immutable once set.
type Loan struct {
	ID         int64      `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
	Version    int32      `json:"-"`
}

// Open reports whether the loan has not yet been returned.
func (l *Loan) Open() bool {
	return l.ReturnDate == nil
}

// CurrentStatus derives the observable status of the loan at a point in
// time. A loan past its due date with no return date reads as Overdue even
// though the stored status remains Issued.
func (l *Loan) CurrentStatus(now time.Time) string {
	if l.ReturnDate != nil {
		return LoanStatusReturned
	}
	if now.After(l.DueDate) {
		return LoanStatusOverdue
	}
	return l.Status
}

func ValidateLoan(v *validator.Validator, loan *Loan) {
	v.Check(loan.UserID > 0, "user", "must be provided")
	v.Check(loan.BookID > 0, "book", "must be provided")
	v.Check(!loan.DueDate.IsZero(), "due_date", "must be provided")
	v.Check(loan.DueDate.After(loan.IssueDate), "due_date", "must be after the issue date")
}
