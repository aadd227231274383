package data

import (
	"errors"
	"time"

	"github.com/emzola/athenaeum/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleLibrarian = "librarian"
	RoleUser      = "user"
)

var AnonymousUser = &User{}

// User defines a library account. An account is either a librarian or a
// standard user; the role decides which operations the access-control
// middleware permits.
type User struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Password     password  `json:"-"`
	Role         string    `json:"role"`
	ProfilePic   string    `json:"profile_pic,omitempty"`
	Subscription string    `json:"subscription"`
	Activated    bool      `json:"activated"`
	Version      int32     `json:"-"`
}

// Check if a user instance is the anonymous user.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// IsLibrarian reports whether the account carries the librarian role.
func (u *User) IsLibrarian() bool {
	return u.Role == RoleLibrarian
}

// RequestQuota returns the number of concurrently active book requests the
// account's subscription tier allows.
func (u *User) RequestQuota() int {
	return SubscriptionQuota(u.Subscription)
}

// password defines the plaintext and hashed versions of a user's password.
// The plaintext field is a *pointer* to a string, so that we're able
// to distinguish between a plaintext password not being present in the struct at
// all, versus a plaintext password which is the empty string.
type password struct {
	Plaintext *string
	Hash      []byte
}

// Set calculates the bcrypt hash of a plaintext password.
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}
	p.Plaintext = &plaintextPassword
	p.Hash = hash
	return nil
}

// Matches checks whether the provided plaintext password matches the hashed
// password stored in the User model, returning true if it matches and false otherwise.
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

func ValidateName(v *validator.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(len(name) <= 500, "name", "must not be more than 500 bytes long")
}

func ValidateUsername(v *validator.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(len(username) <= 100, "username", "must not be more than 100 bytes long")
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

func ValidatePhone(v *validator.Validator, phone string) {
	if phone != "" {
		v.Check(validator.Matches(phone, validator.PhoneRX), "phone", "must be a valid phone number")
	}
}

func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func ValidateRole(v *validator.Validator, role string) {
	v.Check(role != "", "role", "must be provided")
	v.Check(validator.PermittedValue(role, RoleLibrarian, RoleUser), "role", "must be either librarian or user")
}

func ValidateUser(v *validator.Validator, user *User) {
	ValidateName(v, user.Name)
	ValidateUsername(v, user.Username)
	ValidateEmail(v, user.Email)
	ValidatePhone(v, user.Phone)
	ValidateRole(v, user.Role)
	ValidateSubscription(v, user.Subscription)
	if user.Password.Plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.Plaintext)
	}
	if user.Password.Hash == nil {
		panic("missing password hash for user")
	}
}
