package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// MaxJSONBodyBytes caps the size of JSON request bodies.
const MaxJSONBodyBytes = 1 << 20

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBodyBytes)).Decode(v); err != nil {
		return err
	}
	return nil
}

// DecodeUpdate decodes a partial-update body into v after checking that every
// key it names is in allowed. A disallowed key returns domain.ErrInvalidUpdates
// and v is left untouched.
func DecodeUpdate(r *http.Request, allowed []string, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	// No body is an empty update.
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	if err := domain.CheckUpdateFields(fields, allowed); err != nil {
		return err
	}

	return json.Unmarshal(body, v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}
