package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0.125", "0.13"},
		{"0.124", "0.12"},
		{"0.135", "0.14"},
		{"2.675", "2.68"},
		{"100", "100.00"},
		{"0.005", "0.01"},
		{"0.0049", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(RoundHalfUp(d(tc.in))))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "100.00", Format(Percent(d("1000.00"), d("10.00"))))
	assert.Equal(t, "20.00", Format(Percent(d("1000.00"), d("2.00"))))
	assert.Equal(t, "0.13", Format(Percent(d("100.00"), d("0.125"))))
	assert.Equal(t, "3.33", Format(Percent(d("33.33"), d("10.00"))))
}

func TestScale(t *testing.T) {
	assert.Equal(t, "100.00", Format(Scale(d("1000.00"), d("0.10"))))
	assert.Equal(t, "3.34", Format(Scale(d("33.35"), d("0.10"))))
}

func TestParse(t *testing.T) {
	v, err := Parse("1000.50")
	require.NoError(t, err)
	assert.True(t, v.Equal(d("1000.5")))

	_, err = Parse("10.005")
	assert.ErrorIs(t, err, ErrTooManyPlaces)

	_, err = Parse("abc")
	assert.Error(t, err)
}
