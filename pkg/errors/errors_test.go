package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"invalid", NewInvalidRequest("bad"), ErrorTypeInvalidRequest},
		{"forbidden", NewForbidden("no"), ErrorTypeForbidden},
		{"wrapped not found", fmt.Errorf("lookup: %w", NewNotFound("User not found")), ErrorTypeNotFound},
		{"plain error", errors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestInternalKeepsCause(t *testing.T) {
	root := errors.New("connection reset")
	err := NewInternal("Failed to update follow graph", root)

	assert.ErrorIs(t, err, root)
	assert.True(t, IsErrorType(err, ErrorTypeInternal))
	assert.Equal(t, "Failed to update follow graph", MessageOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestMessageOfUntyped(t *testing.T) {
	assert.Equal(t, "Internal server error", MessageOf(errors.New("secret detail")))
}
