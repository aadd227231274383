package service

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/emzola/athenaeum/config"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/internal/jsonlog"
	"github.com/emzola/athenaeum/repository"
)

// mockRepo is an in-memory stand-in for the repository layer. Only the
// methods the workflow services touch are implemented; anything else panics
// through the embedded nil interface.
type mockRepo struct {
	repository.Repository
	mu       sync.Mutex
	users    map[int64]*data.User
	books    map[int64]*data.Book
	sections map[int64]*data.Section
	requests map[int64]*data.Request
	loans    map[int64]*data.Loan
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:    make(map[int64]*data.User),
		books:    make(map[int64]*data.Book),
		sections: make(map[int64]*data.Section),
		requests: make(map[int64]*data.Request),
		loans:    make(map[int64]*data.Loan),
	}
}

func (m *mockRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockRepo) GetUserByID(ID int64) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[ID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	u := *user
	return &u, nil
}

func (m *mockRepo) GetBookByID(ID int64) (*data.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[ID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	b := *book
	return &b, nil
}

func (m *mockRepo) AssignBook(bookID int64, userID int64, issueDate time.Time, returnDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[bookID]
	if !ok {
		return repository.ErrRecordNotFound
	}
	if book.IssuedTo != nil && *book.IssuedTo != userID {
		return repository.ErrBookAssigned
	}
	book.IssuedTo = &userID
	book.IssueDate = &issueDate
	book.ReturnDate = &returnDate
	book.Available = false
	return nil
}

func (m *mockRepo) ReleaseBook(bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[bookID]
	if !ok || book.IssuedTo == nil {
		return repository.ErrRecordNotFound
	}
	book.IssuedTo = nil
	book.IssueDate = nil
	book.ReturnDate = nil
	book.Available = true
	return nil
}

func (m *mockRepo) CreateRequest(request *data.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.UserID == request.UserID && r.BookID == request.BookID && r.Active() {
			return repository.ErrDuplicateRecord
		}
	}
	request.ID = m.id()
	request.CreatedAt = time.Now()
	request.Version = 1
	r := *request
	m.requests[request.ID] = &r
	return nil
}

func (m *mockRepo) GetRequestByID(ID int64) (*data.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[ID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	r := *request
	return &r, nil
}

func (m *mockRepo) CountActiveRequestsForUser(userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.requests {
		if r.UserID == userID && r.Active() {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) UpdateRequest(request *data.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[request.ID]
	if !ok {
		return repository.ErrEditConflict
	}
	stored.Status = request.Status
	stored.Version++
	request.Version = stored.Version
	return nil
}

func (m *mockRepo) DeleteRequest(ID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[ID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.requests, ID)
	return nil
}

func (m *mockRepo) DeleteRequestsForBook(bookID int64, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.requests {
		if r.BookID == bookID && r.UserID == userID {
			delete(m.requests, id)
		}
	}
	return nil
}

func (m *mockRepo) CreateLoan(loan *data.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan.ID = m.id()
	loan.CreatedAt = time.Now()
	loan.Version = 1
	l := *loan
	m.loans[loan.ID] = &l
	return nil
}

func (m *mockRepo) GetLoanByID(ID int64) (*data.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[ID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	l := *loan
	return &l, nil
}

func (m *mockRepo) GetOpenLoanForUserAndBook(userID int64, bookID int64) (*data.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, loan := range m.loans {
		if loan.UserID == userID && loan.BookID == bookID && loan.ReturnDate == nil {
			l := *loan
			return &l, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepo) ReturnLoan(ID int64, returnDate time.Time) (*data.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[ID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	if loan.ReturnDate != nil {
		return nil, repository.ErrEditConflict
	}
	rd := returnDate
	loan.ReturnDate = &rd
	loan.Status = data.LoanStatusReturned
	loan.Version++
	l := *loan
	return &l, nil
}

func (m *mockRepo) addUser(subscription string) *data.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := &data.User{
		ID:           m.id(),
		Name:         "Ada Lovelace",
		Username:     "ada",
		Email:        "ada@example.com",
		Role:         data.RoleUser,
		Subscription: subscription,
		Activated:    true,
	}
	m.users[user.ID] = user
	return user
}

func (m *mockRepo) addBook(title string) *data.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	book := &data.Book{
		ID:        m.id(),
		BookID:    title,
		Title:     title,
		Content:   "content",
		Authors:   []string{"Author"},
		SectionID: 1,
		Available: true,
	}
	m.books[book.ID] = book
	return book
}

func newTestService(repo repository.Repository) *service {
	var wg sync.WaitGroup
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	return New(config.Config{}, &wg, logger, repo)
}

func TestRequestBookHeldByAnother(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	holder := repo.addUser(data.SubscriptionStandard)
	other := repo.addUser(data.SubscriptionStandard)
	book := repo.addBook("book")
	err := repo.AssignBook(book.ID, holder.ID, time.Now(), time.Now().Add(data.LoanPeriod))
	if err != nil {
		t.Fatalf("unexpected error assigning book: %v", err)
	}

	_, err = s.RequestBook(other, book.ID)
	if !errors.Is(err, ErrBookAssigned) {
		t.Fatalf("expected ErrBookAssigned; got %v", err)
	}
	if len(repo.requests) != 0 {
		t.Fatalf("expected no request records; got %d", len(repo.requests))
	}
}

func TestRequestBookQuota(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionBasic)
	first := repo.addBook("first")
	second := repo.addBook("second")

	_, err := s.RequestBook(user, first.ID)
	if err != nil {
		t.Fatalf("unexpected error on first request: %v", err)
	}
	_, err = s.RequestBook(user, second.ID)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded; got %v", err)
	}
}

func TestRequestBookUnlimitedQuota(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionPremium)
	for i := 0; i < 20; i++ {
		book := repo.addBook("book")
		_, err := s.RequestBook(user, book.ID)
		if err != nil {
			t.Fatalf("unexpected error on request %d: %v", i, err)
		}
	}
}

func TestRequestBookNoSubscription(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionNone)
	book := repo.addBook("book")
	_, err := s.RequestBook(user, book.ID)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded; got %v", err)
	}
}

func TestRequestBookDuplicate(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionStandard)
	book := repo.addBook("book")

	_, err := s.RequestBook(user, book.ID)
	if err != nil {
		t.Fatalf("unexpected error on first request: %v", err)
	}
	_, err = s.RequestBook(user, book.ID)
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord; got %v", err)
	}
}

func TestRequestBookAlreadyHeld(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionStandard)
	book := repo.addBook("book")
	err := repo.AssignBook(book.ID, user.ID, time.Now(), time.Now().Add(data.LoanPeriod))
	if err != nil {
		t.Fatalf("unexpected error assigning book: %v", err)
	}
	_, err = s.RequestBook(user, book.ID)
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord; got %v", err)
	}
}

func TestRequestBookNotFound(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionStandard)
	_, err := s.RequestBook(user, 42)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound; got %v", err)
	}
}

func TestResolveRequestGrant(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionStandard)
	book := repo.addBook("book")

	request, err := s.RequestBook(user, book.ID)
	if err != nil {
		t.Fatalf("unexpected error creating request: %v", err)
	}
	resolved, err := s.ResolveRequest(request.ID, data.RequestStatusGranted)
	if err != nil {
		t.Fatalf("unexpected error granting request: %v", err)
	}
	if resolved.Status != data.RequestStatusGranted {
		t.Errorf("expected status %q; got %q", data.RequestStatusGranted, resolved.Status)
	}
	stored, err := repo.GetBookByID(book.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching book: %v", err)
	}
	if !stored.Issued() || *stored.IssuedTo != user.ID {
		t.Error("expected book to be issued to the requesting user")
	}
	if _, err := repo.GetOpenLoanForUserAndBook(user.ID, book.ID); err != nil {
		t.Errorf("expected an open loan for the user and book; got %v", err)
	}
	// A granted request stays on record and keeps counting against the quota
	count, _ := repo.CountActiveRequestsForUser(user.ID)
	if count != 1 {
		t.Errorf("expected 1 active request; got %d", count)
	}
}

func TestResolveRequestReject(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionBasic)
	book := repo.addBook("book")

	request, err := s.RequestBook(user, book.ID)
	if err != nil {
		t.Fatalf("unexpected error creating request: %v", err)
	}
	resolved, err := s.ResolveRequest(request.ID, data.RequestStatusRejected)
	if err != nil {
		t.Fatalf("unexpected error rejecting request: %v", err)
	}
	if resolved.Status != data.RequestStatusRejected {
		t.Errorf("expected status %q; got %q", data.RequestStatusRejected, resolved.Status)
	}
	// Rejection deletes the request, so the quota slot frees up and the same
	// book can be requested again.
	if _, err := repo.GetRequestByID(request.ID); !errors.Is(err, repository.ErrRecordNotFound) {
		t.Errorf("expected request to be deleted; got %v", err)
	}
	if _, err := s.RequestBook(user, book.ID); err != nil {
		t.Errorf("expected a new request after rejection; got %v", err)
	}
}

func TestResolveRequestAlreadyResolved(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionStandard)
	book := repo.addBook("book")

	request, err := s.RequestBook(user, book.ID)
	if err != nil {
		t.Fatalf("unexpected error creating request: %v", err)
	}
	if _, err := s.ResolveRequest(request.ID, data.RequestStatusGranted); err != nil {
		t.Fatalf("unexpected error granting request: %v", err)
	}
	_, err = s.ResolveRequest(request.ID, data.RequestStatusGranted)
	if !errors.Is(err, ErrEditConflict) {
		t.Fatalf("expected ErrEditConflict; got %v", err)
	}
}

func TestResolveRequestBookAlreadyIssued(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	first := repo.addUser(data.SubscriptionStandard)
	second := repo.addUser(data.SubscriptionStandard)
	book := repo.addBook("book")

	firstRequest, err := s.RequestBook(first, book.ID)
	if err != nil {
		t.Fatalf("unexpected error creating first request: %v", err)
	}
	secondRequest, err := s.RequestBook(second, book.ID)
	if err != nil {
		t.Fatalf("unexpected error creating second request: %v", err)
	}
	if _, err := s.ResolveRequest(firstRequest.ID, data.RequestStatusGranted); err != nil {
		t.Fatalf("unexpected error granting first request: %v", err)
	}
	_, err = s.ResolveRequest(secondRequest.ID, data.RequestStatusGranted)
	if !errors.Is(err, ErrBookAssigned) {
		t.Fatalf("expected ErrBookAssigned; got %v", err)
	}
	// The losing request stays pending so it can be granted once the book
	// comes back.
	stored, err := repo.GetRequestByID(secondRequest.ID)
	if err != nil {
		t.Fatalf("unexpected error fetching request: %v", err)
	}
	if stored.Status != data.RequestStatusPending {
		t.Errorf("expected status %q; got %q", data.RequestStatusPending, stored.Status)
	}
}

func TestResolveRequestInvalidDecision(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	user := repo.addUser(data.SubscriptionStandard)
	book := repo.addBook("book")

	request, err := s.RequestBook(user, book.ID)
	if err != nil {
		t.Fatalf("unexpected error creating request: %v", err)
	}
	if _, err := s.ResolveRequest(request.ID, "expired"); err == nil {
		t.Fatal("expected a validation error for an unknown decision")
	}
}
