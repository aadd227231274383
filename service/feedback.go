package service

import (
	"errors"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
)

type feedback interface {
	CreateFeedback(userID int64, bookID int64, rating int32, comment string) (*data.Feedback, error)
	GetFeedback(feedbackID int64) (*data.Feedback, error)
	ListFeedback(bookID int64, filters data.Filters) ([]*data.Feedback, data.Metadata, error)
	DeleteFeedback(feedbackID int64) error
}

// CreateFeedback service records a user's rating and comment on a catalog
// entry.
func (s *service) CreateFeedback(userID int64, bookID int64, rating int32, comment string) (*data.Feedback, error) {
	feedback := &data.Feedback{
		UserID:  userID,
		BookID:  bookID,
		Rating:  rating,
		Comment: comment,
	}
	v := validator.New()
	if data.ValidateFeedback(v, feedback); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	err := s.repo.CreateFeedback(feedback)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return feedback, nil
}

// GetFeedback service retrieves a feedback record.
func (s *service) GetFeedback(feedbackID int64) (*data.Feedback, error) {
	feedback, err := s.repo.GetFeedbackByID(feedbackID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return feedback, nil
}

// ListFeedback service retrieves a paginated list of feedback records.
// Records can be filtered by catalog entry.
func (s *service) ListFeedback(bookID int64, filters data.Filters) ([]*data.Feedback, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	feedbackList, metadata, err := s.repo.GetAllFeedback(bookID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return feedbackList, metadata, nil
}

// DeleteFeedback service deletes a feedback record.
func (s *service) DeleteFeedback(feedbackID int64) error {
	err := s.repo.DeleteFeedback(feedbackID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}
