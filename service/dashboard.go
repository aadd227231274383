package service

import (
	"github.com/emzola/athenaeum/data"
)

type dashboard interface {
	GetDashboardStats() (*data.DashboardStats, error)
}

// GetDashboardStats service aggregates the counts shown on the librarian
// dashboard, along with the most recent standard accounts.
func (s *service) GetDashboardStats() (*data.DashboardStats, error) {
	stats := &data.DashboardStats{}
	var err error
	stats.UsersCount, err = s.repo.CountUsersByRole(data.RoleUser)
	if err != nil {
		return nil, err
	}
	stats.SectionsCount, err = s.repo.CountSections()
	if err != nil {
		return nil, err
	}
	stats.BooksCount, err = s.repo.CountBooks()
	if err != nil {
		return nil, err
	}
	stats.OpenLoans, err = s.repo.CountOpenLoans()
	if err != nil {
		return nil, err
	}
	filters := data.Filters{
		Page:         1,
		PageSize:     10,
		Sort:         "-id",
		SortSafeList: []string{"-id"},
	}
	stats.Users, _, err = s.repo.GetAllUsers("", data.RoleUser, filters)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
