package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanCurrency(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"$1,234.56", "1234.56"},
		{"1234.56", "1234.56"},
		{" $12.00 ", "12.00"},
		{"(5517.95)", "-5517.95"},
		{"($1,200.00)", "-1200.00"},
		{"(0.00)", "0.00"},
		{"0", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanCurrency(tc.in))
		})
	}
}

func TestParseNullableDecimal(t *testing.T) {
	val := parseNullableDecimal("$1,234.56")
	require.NotNil(t, val)
	assert.Equal(t, "1234.56", val.String())

	neg := parseNullableDecimal("($100.00)")
	require.NotNil(t, neg)
	assert.Equal(t, "-100", neg.String())

	assert.Nil(t, parseNullableDecimal(""))
	assert.Nil(t, parseNullableDecimal("not a number"))
}

func TestParseNullableDateFormats(t *testing.T) {
	expected := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2026-03-05", "3/5/2026", "03/05/2026", "3-5-2026", "03-05-2026"} {
		t.Run(in, func(t *testing.T) {
			got := parseNullableDate(in)
			require.NotNil(t, got)
			assert.True(t, got.Equal(expected), "got %s", got)
		})
	}
}

func TestParseNullableDateUnparseable(t *testing.T) {
	assert.Nil(t, parseNullableDate(""))
	assert.Nil(t, parseNullableDate("TBD"))
	assert.Nil(t, parseNullableDate("soon"))
}

func TestParseNullableInt64(t *testing.T) {
	val := parseNullableInt64("1,234")
	require.NotNil(t, val)
	assert.Equal(t, int64(1234), *val)

	assert.Nil(t, parseNullableInt64(""))
	assert.Nil(t, parseNullableInt64("abc"))
}

func TestParseRequiredString(t *testing.T) {
	got, err := parseRequiredString("  24-101  ", 2, "Job No")
	require.NoError(t, err)
	assert.Equal(t, "24-101", got)

	_, err = parseRequiredString("   ", 3, "Job No")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, verr.Row)
	assert.Equal(t, "Job No", verr.Column)
}
