package domain

import (
	"fmt"
	"slices"
	"sort"
)

// CheckUpdateFields returns ErrInvalidUpdates if any key is not in allowed.
// An empty key set is accepted.
func CheckUpdateFields[V any](fields map[string]V, allowed []string) error {
	var rejected []string
	for key := range fields {
		if !slices.Contains(allowed, key) {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) == 0 {
		return nil
	}
	sort.Strings(rejected)
	return fmt.Errorf("%w: %v", ErrInvalidUpdates, rejected)
}
