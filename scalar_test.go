package vram_estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParametersScalar(t *testing.T) {
	cases := []struct {
		given    string
		expected ParametersScalar
	}{
		{"7B", 7},
		{"6.85", 6.85},
		{"770M", 0.77},
		{"1.5T", 1500},
		{"30 B", 30},
	}
	for _, tc := range cases {
		t.Run(tc.given, func(t *testing.T) {
			actual, err := ParseParametersScalar(tc.given)
			assert.NoError(t, err)
			assert.InDelta(t, float64(tc.expected), float64(actual), 1e-9)
		})
	}

	for _, given := range []string{"", "B", "seven"} {
		_, err := ParseParametersScalar(given)
		assert.Error(t, err, "parsing %q", given)
	}
}

func TestParametersScalarString(t *testing.T) {
	cases := []struct {
		given    ParametersScalar
		expected string
	}{
		{0, "0"},
		{7, "7B"},
		{6.85, "6.85B"},
		{0.5, "500M"},
		{671, "671B"},
		{1500, "1.50T"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, tc.given.String())
	}
}

func TestParseGigabytesScalar(t *testing.T) {
	cases := []struct {
		given    string
		expected GigabytesScalar
	}{
		{"24", 24},
		{"24GB", 24},
		{"24 GiB", 24},
		{"141", 141},
		{"0.5", 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.given, func(t *testing.T) {
			actual, err := ParseGigabytesScalar(tc.given)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}

	for _, given := range []string{"", "GB", "big"} {
		_, err := ParseGigabytesScalar(given)
		assert.Error(t, err, "parsing %q", given)
	}
}

func TestGigabytesScalarString(t *testing.T) {
	cases := []struct {
		given    GigabytesScalar
		expected string
	}{
		{0, "0 GB"},
		{14, "14 GB"},
		{8.589934592, "8.59 GB"},
		{127.91, "127.91 GB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, tc.given.String())
	}
}
