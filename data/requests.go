package data

import (
	"time"

	"github.com/emzola/athenaeum/internal/validator"
)

// Request statuses. Pending and granted requests count against the
// account's quota; a rejected request is deleted outright rather than kept
// with a rejected status, matching the product's established behavior.
const (
	RequestStatusPending  = "pending"
	RequestStatusGranted  = "granted"
	RequestStatusRejected = "rejected"
)

// Request defines an account's ask to borrow a catalog entry. At most one
// active (pending or granted) request may exist per (user, book) pair.
type Request struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Status    string    `json:"status"`
	Version   int32     `json:"-"`
}

// Active reports whether the request still counts against the account quota.
func (r *Request) Active() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusGranted
}

func ValidateRequestDecision(v *validator.Validator, decision string) {
	v.Check(decision != "", "status", "must be provided")
	v.Check(validator.PermittedValue(decision, RequestStatusGranted, RequestStatusRejected), "status", "must be either granted or rejected")
}
