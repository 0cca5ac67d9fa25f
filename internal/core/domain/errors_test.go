package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedKind", ErrUnsupportedKind},
		{"ErrBuildInProgress", ErrBuildInProgress},
		{"ErrConnectorClosed", ErrConnectorClosed},
		{"ErrDuplicateContent", ErrDuplicateContent},
		{"ErrEmptyContent", ErrEmptyContent},
		{"ErrSkipped", ErrSkipped},
		{"ErrEmptyDataset", ErrEmptyDataset},
		{"ErrIntegrity", ErrIntegrity},
		{"ErrAuditUnavailable", ErrAuditUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrAlreadyExists,
		ErrInvalidInput,
		ErrUnsupportedKind,
		ErrBuildInProgress,
		ErrConnectorClosed,
		ErrDuplicateContent,
		ErrEmptyContent,
		ErrSkipped,
		ErrEmptyDataset,
		ErrIntegrity,
		ErrAuditUnavailable,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

// TestErrors_WithWrapping tests error wrapping behavior
func TestErrors_WithWrapping(t *testing.T) {
	wrapped := fmt.Errorf("process he/actualia-5.html: %w", ErrDuplicateContent)

	assert.True(t, errors.Is(wrapped, ErrDuplicateContent))
	assert.False(t, errors.Is(wrapped, ErrEmptyContent))
	assert.Contains(t, wrapped.Error(), "duplicate content")
	assert.Contains(t, wrapped.Error(), "he/actualia-5.html")
}

// TestErrors_InSwitchStatement tests using errors in switch statements
func TestErrors_InSwitchStatement(t *testing.T) {
	classify := func(err error) string {
		switch {
		case errors.Is(err, ErrDuplicateContent):
			return "duplicate"
		case errors.Is(err, ErrEmptyContent):
			return "empty"
		case errors.Is(err, ErrSkipped):
			return "skipped"
		default:
			return "unknown"
		}
	}

	assert.Equal(t, "duplicate", classify(fmt.Errorf("x: %w", ErrDuplicateContent)))
	assert.Equal(t, "empty", classify(ErrEmptyContent))
	assert.Equal(t, "unknown", classify(errors.New("disk on fire")))
}

// TestErrors_PerFileErrors tests that per-file errors read as rejection reasons
func TestErrors_PerFileErrors(t *testing.T) {
	perFile := []error{ErrDuplicateContent, ErrEmptyContent, ErrSkipped}

	for _, err := range perFile {
		assert.NotEmpty(t, err.Error())
		assert.False(t, errors.Is(err, ErrIntegrity))
	}
}
