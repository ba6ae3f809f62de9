package requirement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name      string
		token     string
		expectErr bool
		expected  Atom
	}{
		{
			name:     "canonical code",
			token:    "MC102",
			expected: Atom{Code: "MC102"},
		},
		{
			name:     "lower case is canonicalized",
			token:    "mc102",
			expected: Atom{Code: "MC102"},
		},
		{
			name:     "partial code",
			token:    "*MC202",
			expected: Atom{Code: "MC202", Partial: true},
		},
		{
			name:     "irregular single letter department",
			token:    "F 000",
			expected: Atom{Code: "F 000"},
		},
		{
			name:     "partial irregular code",
			token:    "*F 328",
			expected: Atom{Code: "F 328", Partial: true},
		},
		{
			name:      "error - too short",
			token:     "AB12",
			expectErr: true,
		},
		{
			name:      "error - too long",
			token:     "AB1234",
			expectErr: true,
		},
		{
			name:      "error - digits where letters belong",
			token:     "12345",
			expectErr: true,
		},
		{
			name:      "error - empty token",
			token:     "",
			expectErr: true,
		},
		{
			name:      "error - bare marker",
			token:     "*",
			expectErr: true,
		},
		{
			name:      "error - double marker",
			token:     "**MC102",
			expectErr: true,
		},
		{
			name:      "reserved-looking code is still a code",
			token:     "AA200",
			expected:  Atom{Code: "AA200"},
			expectErr: false,
		},
		{
			name:      "error - irregular form with two spaces",
			token:     "F  000",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			atom, err := Classify(tc.token)

			if tc.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAtom)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, atom)
		})
	}
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode("MC102"))
	assert.True(t, IsCode("f 000"))
	assert.False(t, IsCode("*MC102"))
	assert.False(t, IsCode("MC 102"))
	assert.False(t, IsCode(" MC102"))
}
