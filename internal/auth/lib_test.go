package auth

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "secret123" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !CheckPasswordHash(hash, "secret123") {
		t.Error("CheckPasswordHash() rejected the right password")
	}

	if CheckPasswordHash(hash, "secret124") {
		t.Error("CheckPasswordHash() accepted a wrong password")
	}
}

func TestCheckPasswordHash_GarbageHash(t *testing.T) {
	if CheckPasswordHash("not-a-bcrypt-hash", "secret123") {
		t.Error("CheckPasswordHash() accepted a garbage hash")
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a@b.com", "a@b.com"},
		{"  A@B.Com ", "a@b.com"},
		{"USER@EXAMPLE.ORG", "user@example.org"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"first.last+tag@example.co.uk", true},
		{"", false},
		{"plain", false},
		{"no-domain@", false},
		{"@no-local.com", false},
		{"two@@signs.com", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
