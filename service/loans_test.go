package service

import (
	"errors"
	"testing"
	"time"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
)

func TestIssueBook(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionNone)
	book := repo.addBook("book")

	loan, err := s.IssueBook(dto.CreateLoanRequestBody{UserID: user.ID, BookID: book.ID})
	if err != nil {
		t.Fatalf("unexpected error issuing book: %v", err)
	}
	if loan.Status != data.LoanStatusIssued {
		t.Errorf("expected status %q; got %q", data.LoanStatusIssued, loan.Status)
	}
	// Default lending period applies when no due date is given
	want := loan.IssueDate.Add(data.LoanPeriod)
	if !loan.DueDate.Equal(want) {
		t.Errorf("expected due date %v; got %v", want, loan.DueDate)
	}
	stored, err := repo.GetBookByID(book.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching book: %v", err)
	}
	if !stored.Issued() || *stored.IssuedTo != user.ID {
		t.Error("expected book to be issued to the user")
	}
}

func TestIssueBookAlreadyIssued(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	first := repo.addUser(data.SubscriptionNone)
	second := repo.addUser(data.SubscriptionNone)
	book := repo.addBook("book")

	if _, err := s.IssueBook(dto.CreateLoanRequestBody{UserID: first.ID, BookID: book.ID}); err != nil {
		t.Fatalf("unexpected error issuing book: %v", err)
	}
	_, err := s.IssueBook(dto.CreateLoanRequestBody{UserID: second.ID, BookID: book.ID})
	if !errors.Is(err, ErrBookAssigned) {
		t.Fatalf("expected ErrBookAssigned; got %v", err)
	}
}

func TestIssueBookTwiceToSameHolder(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionNone)
	book := repo.addBook("book")

	if _, err := s.IssueBook(dto.CreateLoanRequestBody{UserID: user.ID, BookID: book.ID}); err != nil {
		t.Fatalf("unexpected error issuing book: %v", err)
	}
	_, err := s.IssueBook(dto.CreateLoanRequestBody{UserID: user.ID, BookID: book.ID})
	if !errors.Is(err, ErrBookAssigned) {
		t.Fatalf("expected ErrBookAssigned; got %v", err)
	}
	var open int
	for _, loan := range repo.loans {
		if loan.Open() {
			open++
		}
	}
	if open != 1 {
		t.Fatalf("expected exactly one open ledger entry; got %d", open)
	}
}

func TestReturnBook(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionBasic)
	book := repo.addBook("book")

	request, err := s.RequestBook(user, book.ID)
	if err != nil {
		t.Fatalf("unexpected error creating request: %v", err)
	}
	if _, err := s.ResolveRequest(request.ID, data.RequestStatusGranted); err != nil {
		t.Fatalf("unexpected error granting request: %v", err)
	}
	loan, err := repo.GetOpenLoanForUserAndBook(user.ID, book.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching loan: %v", err)
	}
	returned, err := s.ReturnBook(loan.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error returning book: %v", err)
	}
	if returned.ReturnDate == nil {
		t.Fatal("expected a return date to be set")
	}
	if returned.Status != data.LoanStatusReturned {
		t.Errorf("expected status %q; got %q", data.LoanStatusReturned, returned.Status)
	}
	stored, err := repo.GetBookByID(book.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching book: %v", err)
	}
	if stored.Issued() || !stored.Available {
		t.Error("expected book to be released and available")
	}
	// Returning frees the quota slot, so the user can request the book again
	if _, err := s.RequestBook(user, book.ID); err != nil {
		t.Errorf("expected a new request after return; got %v", err)
	}
}

func TestReturnBookTwice(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionNone)
	book := repo.addBook("book")

	loan, err := s.IssueBook(dto.CreateLoanRequestBody{UserID: user.ID, BookID: book.ID})
	if err != nil {
		t.Fatalf("unexpected error issuing book: %v", err)
	}
	if _, err := s.ReturnBook(loan.ID, nil); err != nil {
		t.Fatalf("unexpected error on first return: %v", err)
	}
	// The stored return date is immutable
	_, err = s.ReturnBook(loan.ID, nil)
	if !errors.Is(err, ErrEditConflict) {
		t.Fatalf("expected ErrEditConflict; got %v", err)
	}
}

func TestBulkReturnBooksBestEffort(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionNone)
	first := repo.addBook("first")
	second := repo.addBook("second")

	firstLoan, err := s.IssueBook(dto.CreateLoanRequestBody{UserID: user.ID, BookID: first.ID})
	if err != nil {
		t.Fatalf("unexpected error issuing first book: %v", err)
	}
	secondLoan, err := s.IssueBook(dto.CreateLoanRequestBody{UserID: user.ID, BookID: second.ID})
	if err != nil {
		t.Fatalf("unexpected error issuing second book: %v", err)
	}
	if _, err := s.ReturnBook(secondLoan.ID, nil); err != nil {
		t.Fatalf("unexpected error returning second book: %v", err)
	}

	results, err := s.BulkReturnBooks(dto.BulkReturnRequestBody{
		LoanIDs: []int64{firstLoan.ID, secondLoan.ID, 999},
	})
	if err != nil {
		t.Fatalf("unexpected error on bulk return: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results; got %d", len(results))
	}
	if results[0].Error != "" || results[0].Loan == nil {
		t.Errorf("expected first loan to be returned; got error %q", results[0].Error)
	}
	if results[1].Error == "" {
		t.Error("expected an error for the already-returned loan")
	}
	if results[2].Error == "" {
		t.Error("expected an error for the missing loan")
	}
}

func TestBulkReturnBooksValidation(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	if _, err := s.BulkReturnBooks(dto.BulkReturnRequestBody{}); err == nil {
		t.Fatal("expected a validation error for an empty batch")
	}
	ids := make([]int64, 101)
	if _, err := s.BulkReturnBooks(dto.BulkReturnRequestBody{LoanIDs: ids}); err == nil {
		t.Fatal("expected a validation error for an oversized batch")
	}
}

func TestRevokeBook(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionBasic)
	book := repo.addBook("book")

	request, err := s.RequestBook(user, book.ID)
	if err != nil {
		t.Fatalf("unexpected error creating request: %v", err)
	}
	if _, err := s.ResolveRequest(request.ID, data.RequestStatusGranted); err != nil {
		t.Fatalf("unexpected error granting request: %v", err)
	}
	if err := s.RevokeBook(book.ID); err != nil {
		t.Fatalf("unexpected error revoking book: %v", err)
	}
	stored, err := repo.GetBookByID(book.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching book: %v", err)
	}
	if stored.Issued() || !stored.Available {
		t.Error("expected book to be released and available")
	}
	// The open ledger entry is closed by the revoke
	if _, err := repo.GetOpenLoanForUserAndBook(user.ID, book.ID); err == nil {
		t.Error("expected no open loan after revoke")
	}
	// The holder's request is deleted so they may request the book again
	if _, err := s.RequestBook(user, book.ID); err != nil {
		t.Errorf("expected a new request after revoke; got %v", err)
	}
}

func TestRevokeBookNotIssued(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	book := repo.addBook("book")
	err := s.RevokeBook(book.ID)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound; got %v", err)
	}
}

func TestGetLoanDerivesOverdue(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionNone)
	book := repo.addBook("book")

	loan := &data.Loan{
		UserID:    user.ID,
		BookID:    book.ID,
		IssueDate: time.Now().Add(-48 * time.Hour),
		DueDate:   time.Now().Add(-24 * time.Hour),
		Status:    data.LoanStatusIssued,
	}
	if err := repo.CreateLoan(loan); err != nil {
		t.Fatalf("unexpected error creating loan: %v", err)
	}
	got, err := s.GetLoan(loan.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching loan: %v", err)
	}
	if got.Status != data.LoanStatusOverdue {
		t.Errorf("expected status %q; got %q", data.LoanStatusOverdue, got.Status)
	}
}
