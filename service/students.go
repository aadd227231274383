package service

import (
	"errors"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
)

type students interface {
	CreateStudent(requestBody dto.CreateStudentRequestBody) (*data.Student, error)
	GetStudent(studentID int64) (*data.Student, error)
	ListStudents(search string, filters data.Filters) ([]*data.Student, data.Metadata, error)
	UpdateStudent(studentID int64, requestBody dto.UpdateStudentRequestBody) (*data.Student, error)
	DeleteStudent(studentID int64) error
}

// CreateStudent service adds a record to the student registry.
func (s *service) CreateStudent(requestBody dto.CreateStudentRequestBody) (*data.Student, error) {
	student := &data.Student{
		RegNo:      requestBody.RegNo,
		Name:       requestBody.Name,
		Email:      requestBody.Email,
		Phone:      requestBody.Phone,
		Department: requestBody.Department,
		Semester:   requestBody.Semester,
	}
	v := validator.New()
	if data.ValidateStudent(v, student); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	err := s.repo.CreateStudent(student)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("reg_no", "a student with this registration number or email already exists")
			ErrDuplicateRecord = s.failedValidation(v.Errors)
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return student, nil
}

// GetStudent service retrieves a student registry record.
func (s *service) GetStudent(studentID int64) (*data.Student, error) {
	student, err := s.repo.GetStudentByID(studentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return student, nil
}

// ListStudents service retrieves a paginated list of student registry
// records. Records can be searched by registration number, name or email.
func (s *service) ListStudents(search string, filters data.Filters) ([]*data.Student, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	students, metadata, err := s.repo.GetAllStudents(search, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return students, metadata, nil
}

// UpdateStudent service updates a student registry record.
func (s *service) UpdateStudent(studentID int64, requestBody dto.UpdateStudentRequestBody) (*data.Student, error) {
	student, err := s.repo.GetStudentByID(studentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if requestBody.RegNo != nil {
		student.RegNo = *requestBody.RegNo
	}
	if requestBody.Name != nil {
		student.Name = *requestBody.Name
	}
	if requestBody.Email != nil {
		student.Email = *requestBody.Email
	}
	if requestBody.Phone != nil {
		student.Phone = *requestBody.Phone
	}
	if requestBody.Department != nil {
		student.Department = *requestBody.Department
	}
	if requestBody.Semester != nil {
		student.Semester = *requestBody.Semester
	}
	v := validator.New()
	if data.ValidateStudent(v, student); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	err = s.repo.UpdateStudent(student)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("reg_no", "a student with this registration number or email already exists")
			ErrDuplicateRecord = s.failedValidation(v.Errors)
			return nil, ErrDuplicateRecord
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return student, nil
}

// DeleteStudent service deletes a student registry record.
func (s *service) DeleteStudent(studentID int64) error {
	err := s.repo.DeleteStudent(studentID)
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
