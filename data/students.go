package data

import (
	"time"

	"github.com/emzola/athenaeum/internal/validator"
)

// Student defines a registry entry maintained by librarians, independent of
// login accounts. Registration numbers and emails are unique.
type Student struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	RegNo      string    `json:"reg_no"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department,omitempty"`
	Semester   int32     `json:"semester,omitempty"`
	Version    int32     `json:"-"`
}

func ValidateStudent(v *validator.Validator, student *Student) {
	v.Check(student.RegNo != "", "reg_no", "must be provided")
	v.Check(len(student.RegNo) <= 50, "reg_no", "must not be more than 50 bytes long")
	ValidateName(v, student.Name)
	ValidateEmail(v, student.Email)
	v.Check(student.Phone != "", "phone", "must be provided")
	v.Check(validator.Matches(student.Phone, validator.PhoneRX), "phone", "must be a valid phone number")
	if student.Semester != 0 {
		v.Check(student.Semester >= 1 && student.Semester <= 8, "semester", "must be between 1 and 8")
	}
}
