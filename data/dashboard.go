package data

// DashboardStats aggregates the counts shown on the librarian dashboard.
type DashboardStats struct {
	UsersCount    int64   `json:"users_count"`
	SectionsCount int64   `json:"sections_count"`
	BooksCount    int64   `json:"books_count"`
	OpenLoans     int64   `json:"open_loans"`
	Users         []*User `json:"users"`
}
