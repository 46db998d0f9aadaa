package util

import (
	"net/http"
	"testing"
)

func TestJWTRoundtrip(t *testing.T) {
	token, err := GenerateJWT(42, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	id, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if id != 42 {
		t.Errorf("user id = %d, want 42", id)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(42, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "other"); err == nil {
		t.Fatal("ParseJWT accepted a token signed with a different secret")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", "secret"); err == nil {
		t.Fatal("ParseJWT accepted garbage")
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc", "abc"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := ExtractToken(r); got != tt.want {
				t.Errorf("ExtractToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals the plaintext")
	}
	if !CheckPassword("correct horse", hash) {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword("wrong", hash) {
		t.Error("CheckPassword accepted the wrong password")
	}
}
