package thread

import (
	"fmt"

	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

// Metadata keys with local meaning.
const (
	KeyBookmarked = "isBookmarked"
	KeyTitle      = "title"
	KeyUserID     = "userId"
)

// Limits imposed by the agent service on thread metadata.
const (
	MaxMetadataPairs = 16
	MaxMetadataKey   = 64
	MaxMetadataValue = 512
)

// Metadata is the free-form string map attached to a thread.
type Metadata map[string]string

// Get returns the value for key, or "" when absent. Safe on nil.
func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// Clone returns a copy of m. A nil map clones to an empty one.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// With returns a copy of m with key set to value, validated against the
// service limits.
func (m Metadata) With(key, value string) (Metadata, error) {
	out := m.Clone()
	out[key] = value
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks m against the service limits.
func (m Metadata) Validate() error {
	if len(m) > MaxMetadataPairs {
		return apperrors.NewValidationError(
			fmt.Sprintf("metadata cannot hold more than %d entries", MaxMetadataPairs))
	}
	for k, v := range m {
		if k == "" {
			return apperrors.NewValidationError("metadata keys cannot be empty")
		}
		if len(k) > MaxMetadataKey {
			return apperrors.NewValidationError(
				fmt.Sprintf("metadata key %q exceeds %d bytes", k, MaxMetadataKey))
		}
		if len(v) > MaxMetadataValue {
			return apperrors.NewValidationError(
				fmt.Sprintf("metadata value for %q exceeds %d bytes", k, MaxMetadataValue))
		}
	}
	return nil
}
