package dto

import "github.com/emzola/athenaeum/data"

// CreateFeedbackRequestBody defines a request body for CreateFeedback service.
type CreateFeedbackRequestBody struct {
	Rating  int32  `json:"rating"`
	Comment string `json:"comment"`
}

// QsListFeedback defines query strings for ListFeedback service.
type QsListFeedback struct {
	Filters data.Filters
}
