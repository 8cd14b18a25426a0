package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userPayload struct {
	Name  string `json:"name" validate:"notblank,min=2"`
	Email string `json:"email" validate:"notblank,email"`
}

type patchPayload struct {
	Name   *string `json:"name" validate:"omitempty,notblank,min=2"`
	UserID *int64  `json:"userId" validate:"omitempty,gt=0"`
}

func TestStruct(t *testing.T) {
	blank := "   "
	short := "A"
	ok := "Alice"
	zero := int64(0)

	tests := []struct {
		name       string
		payload    any
		wantFields []FieldError
	}{
		{
			name:    "valid user",
			payload: userPayload{Name: "Alice", Email: "alice@example.com"},
		},
		{
			name:    "blank name and bad email",
			payload: userPayload{Name: " ", Email: "not-an-email"},
			wantFields: []FieldError{
				{Field: "name", Message: "must not be blank"},
				{Field: "email", Message: "must be a well-formed email address"},
			},
		},
		{
			name:    "short name",
			payload: userPayload{Name: "A", Email: "a@example.com"},
			wantFields: []FieldError{
				{Field: "name", Message: "size must be at least 2"},
			},
		},
		{
			name:    "nil pointers are skipped",
			payload: patchPayload{},
		},
		{
			name:    "present pointer is validated",
			payload: patchPayload{Name: &short},
			wantFields: []FieldError{
				{Field: "name", Message: "size must be at least 2"},
			},
		},
		{
			name:    "blank pointer value",
			payload: patchPayload{Name: &blank},
			wantFields: []FieldError{
				{Field: "name", Message: "must not be blank"},
			},
		},
		{
			name:    "non-positive user id",
			payload: patchPayload{Name: &ok, UserID: &zero},
			wantFields: []FieldError{
				{Field: "userId", Message: "must be greater than 0"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.payload)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *Error
			require.True(t, errors.As(err, &verr), "expected *Error, got %T", err)
			assert.Equal(t, tt.wantFields, verr.Fields)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Fields: []FieldError{
		{Field: "name", Message: "must not be blank"},
		{Field: "email", Message: "must be a well-formed email address"},
	}}

	assert.Equal(t, "name: must not be blank; email: must be a well-formed email address", err.Error())
}
