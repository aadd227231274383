package service

import (
	"errors"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
)

type sections interface {
	CreateSection(name string, description string) (*data.Section, error)
	GetSection(sectionID int64) (*data.Section, error)
	ListSections(filters data.Filters) ([]*data.Section, data.Metadata, error)
	UpdateSection(sectionID int64, requestBody dto.UpdateSectionRequestBody) (*data.Section, error)
	DeleteSection(sectionID int64) error
}

// CreateSection service creates a new section.
func (s *service) CreateSection(name string, description string) (*data.Section, error) {
	section := &data.Section{
		Name:        name,
		Description: description,
	}
	v := validator.New()
	if data.ValidateSection(v, section); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	err := s.repo.CreateSection(section)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("name", "a section with this name already exists")
			ErrDuplicateRecord = s.failedValidation(v.Errors)
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return section, nil
}

// GetSection service retrieves the details of a section.
func (s *service) GetSection(sectionID int64) (*data.Section, error) {
	section, err := s.repo.GetSectionByID(sectionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return section, nil
}

// ListSections service retrieves a paginated list of sections.
func (s *service) ListSections(filters data.Filters) ([]*data.Section, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, data.Metadata{}, ErrFailedValidation
	}
	sections, metadata, err := s.repo.GetAllSections(filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return sections, metadata, nil
}

// UpdateSection service updates the details of a specific section.
func (s *service) UpdateSection(sectionID int64, requestBody dto.UpdateSectionRequestBody) (*data.Section, error) {
	section, err := s.repo.GetSectionByID(sectionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if requestBody.Name != nil {
		section.Name = *requestBody.Name
	}
	if requestBody.Description != nil {
		section.Description = *requestBody.Description
	}
	v := validator.New()
	if data.ValidateSection(v, section); !v.Valid() {
		ErrFailedValidation = s.failedValidation(v.Errors)
		return nil, ErrFailedValidation
	}
	err = s.repo.UpdateSection(section)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("name", "a section with this name already exists")
			ErrDuplicateRecord = s.failedValidation(v.Errors)
			return nil, ErrDuplicateRecord
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return section, nil
}

// DeleteSection service deletes a section. A section still referenced by
// catalog entries cannot be deleted.
func (s *service) DeleteSection(sectionID int64) error {
	count, err := s.repo.CountBooksForSection(sectionID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSectionNotEmpty
	}
	err = s.repo.DeleteSection(sectionID)
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
