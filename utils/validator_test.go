package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	FirstName string  `validate:"required,max=5"`
	Nickname  *string `validate:"omitnil,min=1"`
	Level     int     `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	empty := ""

	tests := []struct {
		name    string
		input   sampleRequest
		wantErr string
	}{
		{name: "valid", input: sampleRequest{FirstName: "Bob"}},
		{name: "required", input: sampleRequest{}, wantErr: "firstname is required"},
		{name: "max", input: sampleRequest{FirstName: "Roberto"}, wantErr: "firstname must be at most 5 characters"},
		{
			name:    "pointer set to empty",
			input:   sampleRequest{FirstName: "Bob", Nickname: &empty},
			wantErr: "nickname must be at least 1 characters",
		},
		{name: "other tags", input: sampleRequest{FirstName: "Bob", Level: -1}, wantErr: "level is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsCode(err, CodeValidation))

			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantErr, appErr.Message)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	email, err := NormalizeEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	for _, bad := range []string{"", "alice", "alice@", "@example.com", "a b@example.com"} {
		_, err := NormalizeEmail(bad)
		assert.True(t, IsCode(err, CodeValidation), bad)
	}
}
