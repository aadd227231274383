package service

import (
	"errors"
	"testing"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/repository"
)

func (m *mockRepo) addSection(name string) *data.Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	section := &data.Section{
		ID:          m.id(),
		Name:        name,
		Description: "description",
	}
	m.sections[section.ID] = section
	return section
}

func (m *mockRepo) CountBooksForSection(sectionID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, book := range m.books {
		if book.SectionID == sectionID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) DeleteSection(ID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sections[ID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(m.sections, ID)
	return nil
}

func (m *mockRepo) addBookInSection(sectionID int64) *data.Book {
	book := m.addBook("book")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID].SectionID = sectionID
	book.SectionID = sectionID
	return book
}

func TestDeleteSectionWhileReferenced(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	section := repo.addSection("fiction")
	book := repo.addBookInSection(section.ID)

	err := s.DeleteSection(section.ID)
	if !errors.Is(err, ErrSectionNotEmpty) {
		t.Fatalf("expected ErrSectionNotEmpty; got %v", err)
	}
	// Once the last book leaves the section, deletion goes through
	repo.mu.Lock()
	delete(repo.books, book.ID)
	repo.mu.Unlock()
	if err := s.DeleteSection(section.ID); err != nil {
		t.Fatalf("unexpected error deleting empty section: %v", err)
	}
}

func TestDeleteSectionNotFound(t *testing.T) {
	repo := newMockRepo()
	s := newTestService(repo)
	err := s.DeleteSection(42)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound; got %v", err)
	}
}
