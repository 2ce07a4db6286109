package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("student@school.cl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, email := range []string{"", "no-at", "a@b", "two@@b.cl", "spaces in@b.cl"} {
		if err := ValidateEmail(email); err != ErrInvalidEmail {
			t.Fatalf("expected ErrInvalidEmail for %q, got %v", email, err)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("maria_22"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, username := range []string{"", "ab", "with space", "too-dashy"} {
		if err := ValidateUsername(username); err != ErrInvalidUsername {
			t.Fatalf("expected ErrInvalidUsername for %q, got %v", username, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePassword("short"); err != ErrInvalidPassword {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestValidatePhone(t *testing.T) {
	if err := ValidatePhone("+56912345678"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, phone := range []string{"", "123", "phone", "+12 345"} {
		if err := ValidatePhone(phone); err != ErrInvalidPhone {
			t.Fatalf("expected ErrInvalidPhone for %q, got %v", phone, err)
		}
	}
}
