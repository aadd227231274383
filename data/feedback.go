package data

import (
	"time"

	"github.com/emzola/athenaeum/internal/validator"
)

// Feedback defines a user's rating and comment on a catalog entry.
type Feedback struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
	BookID    int64     `json:"book_id"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	Version   int32     `json:"-"`
}

func ValidateFeedback(v *validator.Validator, feedback *Feedback) {
	v.Check(feedback.Rating >= 1, "rating", "must be at least 1")
	v.Check(feedback.Rating <= 5, "rating", "must not be more than 5")
	v.Check(feedback.Comment != "", "comment", "must be provided")
	v.Check(len(feedback.Comment) <= 2000, "comment", "must not be more than 2000 bytes long")
}
