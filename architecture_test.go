package vram_estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveArchitecture(t *testing.T) {
	cases := []struct {
		given    ParametersScalar
		expected ArchitectureProfile
	}{
		{0.5, ArchitectureProfile{HiddenDimension: 2048, Layers: 22}},
		{1, ArchitectureProfile{HiddenDimension: 2048, Layers: 22}},
		{1.1, ArchitectureProfile{HiddenDimension: 3072, Layers: 26}},
		{3, ArchitectureProfile{HiddenDimension: 3072, Layers: 26}},
		// Ceiling match, not nearest: 6.85 resolves up to the 7B bucket.
		{6.85, ArchitectureProfile{HiddenDimension: 4096, Layers: 32}},
		{7, ArchitectureProfile{HiddenDimension: 4096, Layers: 32}},
		{13, ArchitectureProfile{HiddenDimension: 5120, Layers: 40}},
		{70, ArchitectureProfile{HiddenDimension: 12288, Layers: 96}},
		{671, ArchitectureProfile{HiddenDimension: 20480, Layers: 160}},
		// Beyond the largest bucket clamps, never extrapolates.
		{1000, ArchitectureProfile{HiddenDimension: 20480, Layers: 160}},
	}
	for _, tc := range cases {
		t.Run(tc.given.String(), func(t *testing.T) {
			actual, err := ResolveArchitecture(tc.given)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestResolveArchitecture_Invalid(t *testing.T) {
	for _, given := range []ParametersScalar{0, -7} {
		_, err := ResolveArchitecture(given)
		assert.ErrorIs(t, err, ErrInvalidArchitecture)
	}
}

func TestResolveArchitecture_Idempotent(t *testing.T) {
	// Resolving a bucket's own nominal count returns that bucket exactly.
	for i := range _DefaultArchitectures {
		actual, err := ResolveArchitecture(_DefaultArchitectures[i].Parameters)
		assert.NoError(t, err)
		assert.Equal(t, _DefaultArchitectures[i].Profile, actual)
	}
}

func TestEstimateParameters(t *testing.T) {
	cases := []struct {
		given    ArchitectureProfile
		expected float64
	}{
		{ArchitectureProfile{HiddenDimension: 4096, Layers: 32}, 1.34217728},
		{ArchitectureProfile{HiddenDimension: 2048, Layers: 22}, 0.2306867},
	}
	for _, tc := range cases {
		actual, err := EstimateParameters(tc.given)
		assert.NoError(t, err)
		assert.InDelta(t, tc.expected, float64(actual), 1e-6)
	}

	_, err := EstimateParameters(ArchitectureProfile{HiddenDimension: 0, Layers: 32})
	assert.ErrorIs(t, err, ErrInvalidArchitecture)
	_, err = EstimateParameters(ArchitectureProfile{HiddenDimension: 4096, Layers: 0})
	assert.ErrorIs(t, err, ErrInvalidArchitecture)
}
