package password_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/alhamw/vehicle-booking-system-sub000/shared/password"
)

func TestConstants(t *testing.T) {
	if password.DefaultCost != bcrypt.DefaultCost {
		t.Errorf("expected DefaultCost to be %d, got %d", bcrypt.DefaultCost, password.DefaultCost)
	}
}

func TestHash(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		expectError bool
	}{
		{
			name:        "valid password",
			password:    "validPassword123",
			expectError: false,
		},
		{
			name:        "empty password",
			password:    "",
			expectError: true,
		},
		{
			name:        "short password",
			password:    "abc",
			expectError: false,
		},
		{
			name:        "password at bcrypt length limit",
			password:    strings.Repeat("a", 72),
			expectError: false,
		},
		{
			name:        "password over bcrypt length limit",
			password:    strings.Repeat("a", 100),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got nil")
				}

				return
			}

			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}

			if hash == "" {
				t.Errorf("expected non-empty hash")
			}

			if hash == tt.password {
				t.Errorf("expected hash to differ from plaintext")
			}
		})
	}
}

func TestHashUniqueness(t *testing.T) {
	first, err := password.Hash("samePassword")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := password.Hash("samePassword")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// bcrypt salts every hash, equal inputs must not produce equal hashes
	if first == second {
		t.Errorf("expected different hashes for the same password")
	}
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("correctPassword123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tests := []struct {
		name          string
		password      string
		hash          string
		expectedError error
	}{
		{
			name:          "matching password",
			password:      "correctPassword123",
			hash:          hash,
			expectedError: nil,
		},
		{
			name:          "wrong password",
			password:      "wrongPassword123",
			hash:          hash,
			expectedError: password.ErrInvalidPassword,
		},
		{
			name:          "empty password",
			password:      "",
			hash:          hash,
			expectedError: password.ErrInvalidPassword,
		},
		{
			name:          "empty hash",
			password:      "correctPassword123",
			hash:          "",
			expectedError: password.ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.expectedError == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}

				return
			}

			if !errors.Is(err, tt.expectedError) {
				t.Errorf("expected error %v, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	err := password.Verify("anyPassword", "not-a-bcrypt-hash")
	if err == nil {
		t.Errorf("expected error for malformed hash, got nil")
	}

	if errors.Is(err, password.ErrInvalidPassword) {
		t.Errorf("expected a wrapped bcrypt error, got ErrInvalidPassword")
	}
}
