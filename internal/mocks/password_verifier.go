package mocks

import (
	"errors"
	"strings"
)

// MockPasswordVerifier implements auth.PasswordHasher and auth.PasswordVerifier.
// By default Hash prefixes the password with "hashed:" and Compare accepts
// exactly that pairing.
type MockPasswordVerifier struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error
}

// Hash implements auth.PasswordHasher
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordVerifier
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if strings.TrimPrefix(hashedPassword, "hashed:") != password {
		return errors.New("password does not match")
	}
	return nil
}
