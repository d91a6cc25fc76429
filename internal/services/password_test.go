package services_test

import (
	"testing"

	"sosmed/internal/apperror"
	"sosmed/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"abcdef1!", true},
		{"Passw0rd&", true},
		{"abcdefg1", false},  // no symbol
		{"abcdefg!", false},  // no digit
		{"1234567!", false},  // no letter
		{"ab1!", false},      // too short
		{"abcdef1!#", false}, // symbol outside the accepted set
		{"abcdéf1!", false},  // non-ASCII letter
		{"abc def1!", false}, // whitespace
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := services.CheckPasswordPolicy(tt.password)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, apperror.KindWeakCredential, apperror.KindOf(err))
		})
	}
}

func TestGeneratePassword_SatisfiesPolicy(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		password, err := services.GeneratePassword()
		assert.NoError(t, err)
		assert.NoError(t, services.CheckPasswordPolicy(password))
		seen[password] = true
	}
	assert.Greater(t, len(seen), 1)
}
