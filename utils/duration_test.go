package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationDays(t *testing.T) {
	cases := []struct {
		input string
		days  int
	}{
		{"30 Days", 30},
		{"1 Day", 1},
		{"6 Weeks", 42},
		{"2 weeks", 14},
		{"2 Months", 60},
		{"1 month intensive", 30},
		{"About 10 days total", 10},
		{"45", 45},
	}

	for _, tc := range cases {
		days, err := ParseDurationDays(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.days, days, "input %q", tc.input)
	}
}

func TestParseDurationDaysErrors(t *testing.T) {
	for _, input := range []string{"", "Self paced", "a few days", "zero"} {
		_, err := ParseDurationDays(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		input string
		slug  string
	}{
		{"Go For Backend Engineers", "go-for-backend-engineers"},
		{"  Spaced  Out  Title  ", "spaced-out-title"},
		{"C++ & Rust: A Comparison!", "c-rust-a-comparison"},
		{"Already-Slugged", "already-slugged"},
		{"100 Days of Code", "100-days-of-code"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.slug, Slugify(tc.input), "input %q", tc.input)
	}
}
