package dto

import "github.com/emzola/athenaeum/data"

// CreateStudentRequestBody defines a request body for CreateStudent service.
type CreateStudentRequestBody struct {
	RegNo      string `json:"reg_no"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Semester   int32  `json:"semester"`
}

// UpdateStudentRequestBody defines a request body for UpdateStudent service.
type UpdateStudentRequestBody struct {
	RegNo      *string `json:"reg_no"`
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Semester   *int32  `json:"semester"`
}

// QsListStudents defines query strings for ListStudents service.
type QsListStudents struct {
	Search  string
	Filters data.Filters
}
