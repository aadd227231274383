package data

import "testing"

func TestPasswordSetAndMatches(t *testing.T) {
	var p password
	err := p.Set("pa55word1234")
	if err != nil {
		t.Fatalf("unexpected error setting password: %v", err)
	}
	match, err := p.Matches("pa55word1234")
	if err != nil {
		t.Fatalf("unexpected error matching password: %v", err)
	}
	if !match {
		t.Error("expected password to match")
	}
	match, err = p.Matches("wrongpassword")
	if err != nil {
		t.Fatalf("unexpected error matching password: %v", err)
	}
	if match {
		t.Error("expected password not to match")
	}
}

func TestIsLibrarian(t *testing.T) {
	user := &User{Role: RoleLibrarian}
	if !user.IsLibrarian() {
		t.Error("expected librarian role to be recognized")
	}
	user.Role = RoleUser
	if user.IsLibrarian() {
		t.Error("expected user role not to be librarian")
	}
}

func TestIsAnonymous(t *testing.T) {
	if !AnonymousUser.IsAnonymous() {
		t.Error("expected AnonymousUser to be anonymous")
	}
	if (&User{}).IsAnonymous() {
		t.Error("expected a distinct user not to be anonymous")
	}
}
