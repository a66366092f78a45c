package identifier

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jgivc/rgudw/internal/common"
	"github.com/stretchr/testify/require"
)

func TestValidateKnownPrefixes(t *testing.T) {
	require.Len(t, validPrefixes, 25)

	for prefix := range validPrefixes {
		for _, suffix := range []string{"00000", "12345", "99999"} {
			id, err := Validate(strings.ToLower(prefix) + suffix)
			require.NoError(t, err)
			require.Equal(t, prefix+suffix, id.String())
		}
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    string
		expectError bool
	}{
		{name: "Upper case", raw: "BLUS12345", expected: "BLUS12345"},
		{name: "Mixed case", raw: "nPeA00001", expected: "NPEA00001"},
		{name: "Short suffix", raw: "blus1", expected: "BLUS1"},
		{name: "Long suffix", raw: "BLES123456789", expected: "BLES123456789"},
		{name: "Unknown prefix", raw: "ABCD12345", expectError: true},
		{name: "Letter in suffix", raw: "BLUS1234A", expectError: true},
		{name: "Sign in suffix", raw: "BLUS-1234", expectError: true},
		{name: "No suffix", raw: "BLUS", expectError: true},
		{name: "Empty", raw: "", expectError: true},
		{name: "Unicode digits", raw: "BLUS１２３４５", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Validate(tc.raw)
			if tc.expectError {
				require.ErrorIs(t, err, common.ErrInvalidIdentifier)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expected, string(id))
		})
	}
}

func TestValidateErrorNamesInput(t *testing.T) {
	_, err := Validate("xxxx12345")
	require.Error(t, err)
	require.Equal(t, fmt.Sprintf("%s: XXXX12345", common.ErrInvalidIdentifier), err.Error())
}
