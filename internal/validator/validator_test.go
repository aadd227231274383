package validator

import "testing"

func TestValidator(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		v := New()
		v.Check(true, "field", "must be provided")
		if !v.Valid() {
			t.Errorf("expected validator to be valid; got errors %v", v.Errors)
		}
		v.Check(false, "field", "must be provided")
		if v.Valid() {
			t.Error("expected validator to be invalid")
		}
	})

	t.Run("AddError keeps first message", func(t *testing.T) {
		v := New()
		v.AddError("field", "first")
		v.AddError("field", "second")
		if v.Errors["field"] != "first" {
			t.Errorf("expected %q; got %q", "first", v.Errors["field"])
		}
	})
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid email", "ada@example.com", true},
		{"missing domain", "ada@", false},
		{"missing local part", "@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.email, EmailRX); got != tt.want {
				t.Errorf("Matches(%q) = %v; want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestPhoneRX(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+2348012345678", true},
		{"08012345678", true},
		{"12345", false},
		{"not-a-number", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.phone, PhoneRX); got != tt.want {
			t.Errorf("Matches(%q) = %v; want %v", tt.phone, got, tt.want)
		}
	}
}

func TestUnique(t *testing.T) {
	if !Unique([]string{"a", "b", "c"}) {
		t.Error("expected unique slice to pass")
	}
	if Unique([]string{"a", "b", "a"}) {
		t.Error("expected duplicate slice to fail")
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("granted", "granted", "rejected") {
		t.Error("expected permitted value to pass")
	}
	if PermittedValue("expired", "granted", "rejected") {
		t.Error("expected unknown value to fail")
	}
}
