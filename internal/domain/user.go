package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Password length bounds. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 7
	MaxPasswordLength = 72
)

var emailValidator = validator.New()

// Common validation errors
var (
	ErrEmptyUserID         = NewValidationError("id", "cannot be empty", nil)
	ErrEmptyName           = NewValidationError("name", "is required", nil)
	ErrEmptyEmail          = NewValidationError("email", "is required", nil)
	ErrInvalidEmail        = NewValidationError("email", "is invalid", nil)
	ErrPasswordTooShort    = NewValidationError("password", "must be at least 7 characters long", nil)
	ErrPasswordTooLong     = NewValidationError("password", "must be at most 72 characters long", nil)
	ErrPasswordContainsPwd = NewValidationError("password", `cannot contain "password"`, nil)
	ErrEmptyPassword       = NewValidationError("password", "is required", nil)
	ErrNegativeAge         = NewValidationError("age", "must be a positive number", nil)
)

// User represents a registered user.
// Password is only ever set transiently between request decoding and hashing;
// neither it nor the hash is serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given profile and plaintext password.
// Name and email are normalized before validation. The caller is responsible
// for hashing the password before the user is stored.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Age:       age,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if emailValidator.Var(u.Email, "email") != nil {
		return ErrInvalidEmail
	}

	if u.Age < 0 {
		return ErrNegativeAge
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// ValidatePassword enforces the plaintext password rules.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	case strings.Contains(strings.ToLower(password), "password"):
		return ErrPasswordContainsPwd
	}
	return nil
}

// UserUpdate carries the optional fields of a profile update.
// A nil field is left unchanged.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

// UserUpdatableFields is the allowlist for profile updates.
var UserUpdatableFields = []string{"name", "email", "password", "age"}

// ApplyUpdate applies upd to the user. Either every field is applied and the
// result is valid, or the user is left untouched and an error is returned.
// A new password is left in Password for the caller to hash.
func (u *User) ApplyUpdate(upd UserUpdate) error {
	next := *u
	next.Password = ""

	if upd.Name != nil {
		next.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		next.Email = NormalizeEmail(*upd.Email)
	}
	if upd.Age != nil {
		next.Age = *upd.Age
	}
	if upd.Password != nil {
		if err := ValidatePassword(*upd.Password); err != nil {
			return err
		}
		next.Password = *upd.Password
	}

	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = time.Now().UTC()
	*u = next
	return nil
}
