package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Sunlit!Harbor42x", ""},
		{"empty", "", "required"},
		{"too short", "Ab1!xyzk", "between"},
		{"no uppercase", "sunlit!harbor42x", "uppercase"},
		{"no lowercase", "SUNLIT!HARBOR42X", "lowercase"},
		{"no digit", "Sunlit!HarborXy", "digit"},
		{"no special", "SunlitHarbor42x", "special"},
		{"repeated characters", "Sunlit!Haaar42x", "repeated"},
		{"repeated across case", "Sunlit!HaAa42xq", "repeated"},
		{"double characters allowed", "Sunlit!Haar42xq", ""},
		{"sequential numbers", "Sunlit!Harb123x", "sequential numbers"},
		{"sequential letters", "Sunabc!Harb42x", "sequential letters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrWeakPassword)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sunlit!Harbor42x")
	require.NoError(t, err)
	assert.NotEqual(t, "Sunlit!Harbor42x", hash)

	assert.True(t, CheckPassword("Sunlit!Harbor42x", hash))
	assert.False(t, CheckPassword("WrongPassword!9x", hash))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice_smith-2"))
	assert.ErrorIs(t, ValidateUsername(""), ErrValidation)
	assert.ErrorIs(t, ValidateUsername("ab"), ErrValidation)
	assert.ErrorIs(t, ValidateUsername("has spaces"), ErrValidation)
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.ErrorIs(t, ValidateEmail("not-an-email"), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("missing@tld"), ErrValidation)
}

func TestValidateFullName(t *testing.T) {
	assert.NoError(t, ValidateFullName("Alice O'Neil-Smith Jr."))
	assert.ErrorIs(t, ValidateFullName("A"), ErrValidation)
	assert.ErrorIs(t, ValidateFullName("Alice <script>"), ErrValidation)
}
