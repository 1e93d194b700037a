package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testEnum string

const (
	testEnumAlpha testEnum = "alpha"
	testEnumBeta  testEnum = "beta"
	testEnumGamma testEnum = "gamma"
)

func newTestNormalizer() *Normalizer[testEnum] {
	return NewNormalizer(map[string]testEnum{
		"alpha": testEnumAlpha,
		"beta":  testEnumBeta,
		"Gamma": testEnumGamma,
	}, testEnumAlpha)
}

func TestNormalizer_Basic(t *testing.T) {
	normalizer := newTestNormalizer()

	tests := []struct {
		name     string
		input    string
		expected testEnum
	}{
		{"exact match", "alpha", testEnumAlpha},
		{"case insensitive", "BETA", testEnumBeta},
		{"with spaces", "  gamma  ", testEnumGamma},
		{"invalid input", "invalid", testEnumAlpha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizer.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	normalizer := newTestNormalizer()

	v, err := normalizer.NormalizeWithError(" Beta ")
	require.NoError(t, err)
	require.Equal(t, testEnumBeta, v)

	_, err = normalizer.NormalizeWithError("delta")
	require.Error(t, err)
	require.Contains(t, err.Error(), "[alpha beta gamma]")
}

func TestNormalizer_List(t *testing.T) {
	normalizer := newTestNormalizer()

	values, err := normalizer.NormalizeList("alpha, GAMMA,,")
	require.NoError(t, err)
	require.Equal(t, []testEnum{testEnumAlpha, testEnumGamma}, values)

	values, err = normalizer.NormalizeList("")
	require.NoError(t, err)
	require.Empty(t, values)

	_, err = normalizer.NormalizeList("alpha,delta")
	require.Error(t, err)
}

func TestNormalizer_ValidKeysIsCopy(t *testing.T) {
	normalizer := newTestNormalizer()
	keys := normalizer.ValidKeys()
	keys[0] = "mutated"
	require.Equal(t, []string{"alpha", "beta", "gamma"}, normalizer.ValidKeys())
}
