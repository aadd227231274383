package dto

import "github.com/emzola/athenaeum/data"

// CreateSectionRequestBody defines a request body for CreateSection service.
type CreateSectionRequestBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateSectionRequestBody defines a request body for UpdateSection service.
type UpdateSectionRequestBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// QsListSections defines query strings for ListSections service.
type QsListSections struct {
	Filters data.Filters
}
