package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Cents
	}{
		{"12.34", 1234},
		{"12.3", 1230},
		{"12", 1200},
		{"0.05", 5},
		{".50", 50},
		{"-3.25", -325},
		{" 45.50 ", 4550},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "1.2.3"} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFromFloatRoundsHalfUp(t *testing.T) {
	assert.Equal(t, Cents(683), FromFloat(6.825))
	assert.Equal(t, Cents(1000), FromFloat(10.00))
	assert.Equal(t, Cents(-683), FromFloat(-6.825))
}

func TestPercent(t *testing.T) {
	// 10% service charge on 35.00
	assert.Equal(t, Cents(350), Cents(3500).Percent(1000))
	// 15% tip on 45.50 rounds 6.825 up to 6.83
	assert.Equal(t, Cents(683), Cents(4550).Percent(1500))
	// zero rate
	assert.Equal(t, Cents(0), Cents(4550).Percent(0))
}

func TestString(t *testing.T) {
	assert.Equal(t, "35.00", Cents(3500).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "-3.25", Cents(-325).String())
}
