package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username  string `json:"username" validate:"required,username"`
	CitizenID string `json:"citizenId" validate:"required,citizenid"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	tests := []struct {
		name      string
		in        signup
		wantField string
	}{
		{"valid legacy id", signup{"candidate", "123456789", ""}, ""},
		{"valid chip id and phone", signup{"nguyen.van_a", "001203004567", "+84912345678"}, ""},
		{"short username", signup{"ab", "123456789", ""}, "username"},
		{"bad citizen id", signup{"candidate", "12345", ""}, "citizenId"},
		{"bad phone", signup{"candidate", "123456789", "12ab"}, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.wantField, verrs[0].Field())
		})
	}
}
