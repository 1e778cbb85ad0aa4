package validators

import (
	"net/http"
	"testing"

	"github.com/anonto42/campus-diary/backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	PostID   string `json:"postId" validate:"omitempty,objectid"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		in      sample
		wantMsg string
	}{
		{"valid", sample{Email: "a@nitc.ac.in", Password: "secret1"}, ""},
		{"missing email", sample{Password: "secret1"}, "email is required"},
		{"short password", sample{Email: "a@nitc.ac.in", Password: "abc"}, "password must be at least 6 characters"},
		{"bad object id", sample{Email: "a@nitc.ac.in", Password: "secret1", PostID: "nope"}, "postId must be a valid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
