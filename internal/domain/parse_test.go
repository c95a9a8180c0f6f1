package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonEndYear(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected int
	}{
		{"current season", "2024-25", 2025},
		{"century rollover", "1999-00", 2000},
		{"nineteenth century", "1898-99", 1899},
		{"padded", " 2010-11 ", 2011},
		{"bare year", "2023", 2023},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			year, err := SeasonEndYear(tc.label)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, year)
		})
	}
}

func TestSeasonEndYear_Malformed(t *testing.T) {
	for _, label := range []string{"", "-25", "abcd-ef", "season"} {
		_, err := SeasonEndYear(label)
		require.Error(t, err, label)
		assert.ErrorIs(t, err, ErrMalformed)
	}
}

func TestParseWinLossFraction(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{"leading point", ".596", 0.596},
		{"stray dash", "-.596", 0.596},
		{"perfect season", "1.000", 1.0},
		{"winless season", ".000", 0},
		{"point dropped", "596", 0.596},
		{"leading zero", "0.450", 0.45},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := ParseWinLossFraction(tc.raw)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, v, 1e-9)
		})
	}
}

func TestParseWinLossFraction_Malformed(t *testing.T) {
	for _, raw := range []string{"", "-", "n/a", "1.5", "2000", "NaN"} {
		_, err := ParseWinLossFraction(raw)
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}

func TestParseClassYear(t *testing.T) {
	assert.Equal(t, Freshman, ParseClassYear("Fr."))
	assert.Equal(t, Freshman, ParseClassYear(" FR "))
	assert.Equal(t, Sophomore, ParseClassYear("So."))
	assert.Equal(t, Junior, ParseClassYear("junior"))
	assert.Equal(t, Senior, ParseClassYear("Sr"))
	assert.Equal(t, ClassUnknown, ParseClassYear("Gr."))
	assert.Equal(t, ClassUnknown, ParseClassYear(""))
	assert.Equal(t, "Fr", Freshman.String())
}

func TestParseClassification(t *testing.T) {
	c, err := ParseClassification("safety")
	require.NoError(t, err)
	assert.Equal(t, Safety, c)

	c, err = ParseClassification(" Reach ")
	require.NoError(t, err)
	assert.Equal(t, Reach, c)

	_, err = ParseClassification("lock")
	assert.ErrorIs(t, err, ErrMalformed)
}
