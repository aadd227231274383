package dto

import "github.com/emzola/athenaeum/data"

// ResolveRequestRequestBody defines a request body for ResolveRequest service.
type ResolveRequestRequestBody struct {
	Status string `json:"status"`
}

// QsListRequests defines query strings for ListRequests service.
type QsListRequests struct {
	Status  string
	Filters data.Filters
}
