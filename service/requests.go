package service

import (
	"errors"
	"strings"
	"time"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/internal/mailer"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
)

type requests interface {
	RequestBook(user *data.User, bookID int64) (*data.Request, error)
	GetRequest(requestID int64) (*data.Request, error)
	ListRequests(status string, filters data.Filters) ([]*data.Request, data.Metadata, error)
	ResolveRequest(requestID int64, decision string) (*data.Request, error)
}

// RequestBook service records an account's ask to borrow a book. The number
// of concurrently active requests is capped by the account's subscription
// tier. A book that is currently assigned cannot be requested: the holder
// already has it, and anyone else must wait until it comes back.
func (s *service) RequestBook(user *data.User, bookID int64) (*data.Request, error) {
	book, err := s.repo.GetBookByID(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if book.Issued() {
		if *book.IssuedTo == user.ID {
			return nil, ErrDuplicateRecord
		}
		return nil, ErrBookAssigned
	}
	// Enforce the subscription quota. Granted requests still count: quota is
	// only released when the book comes back.
	quota := user.RequestQuota()
	if quota != data.UnlimitedRequests {
		active, err := s.repo.CountActiveRequestsForUser(user.ID)
		if err != nil {
			return nil, err
		}
		if active >= int64(quota) {
			return nil, ErrQuotaExceeded
		}
	}
	request := &data.Request{
		UserID: user.ID,
		BookID: book.ID,
		Status: data.RequestStatusPending,
	}
	err = s.repo.CreateRequest(request)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return request, nil
}

// GetRequest service retrieves the details of a borrow request.
func (s *service) GetRequest(requestID int64) (*data.Request, error) {
	request, err := s.repo.GetRequestByID(requestID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return request, nil
}

// ListRequests service retrieves a paginated list of borrow requests.
// Records can be filtered by status.
func (s *service) ListRequests(status string, filters data.Filters) ([]*data.Request, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	requests, metadata, err := s.repo.GetAllRequests(status, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return requests, metadata, nil
}

// ResolveRequest service decides a pending borrow request. Granting assigns
// the book and opens a ledger entry; the request stays on record with a
// granted status so it keeps counting against the quota. Rejecting deletes
// the request outright so the account can request the book again later.
func (s *service) ResolveRequest(requestID int64, decision string) (*data.Request, error) {
	v := validator.New()
	if data.ValidateRequestDecision(v, decision); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	request, err := s.repo.GetRequestByID(requestID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	// Only a pending request can be resolved
	if request.Status != data.RequestStatusPending {
		return nil, ErrEditConflict
	}
	if decision == data.RequestStatusRejected {
		err = s.repo.DeleteRequest(request.ID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return nil, ErrEditConflict
			default:
				return nil, err
			}
		}
		request.Status = data.RequestStatusRejected
		return request, nil
	}
	// Granting: assign the book first. The conditional update on the books
	// table is what stops two librarians granting the same book to two
	// different accounts.
	issueDate := time.Now()
	dueDate := issueDate.Add(data.LoanPeriod)
	err = s.repo.AssignBook(request.BookID, request.UserID, issueDate, dueDate)
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
	loan := &data.Loan{
		UserID:    request.UserID,
		BookID:    request.BookID,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Status:    data.LoanStatusIssued,
	}
	err = s.repo.CreateLoan(loan)
	if err != nil {
		return nil, err
	}
	request.Status = data.RequestStatusGranted
	err = s.repo.UpdateRequest(request)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	// Notify the account by email in a background goroutine
	user, err := s.repo.GetUserByID(request.UserID)
	if err == nil {
		book, bookErr := s.repo.GetBookByID(request.BookID)
		if bookErr == nil {
			s.background(func() {
				data := map[string]string{
					"userName":  strings.Split(user.Name, " ")[0],
					"bookTitle": book.Title,
					"dueDate":   dueDate.Format("2 January 2006"),
				}
				mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
				err := mailer.Send(user.Email, "loan_issued.tmpl", data)
				if err != nil {
					s.logger.PrintError(err, nil)
				}
			})
		}
	}
	return request, nil
}
