package vram_estimator

import (
	"fmt"
)

// ArchitectureProfile represents the structural dimensions of a model
// that drive the KV-cache formula.
type ArchitectureProfile struct {
	// HiddenDimension is the embedding size of the model.
	HiddenDimension uint64 `json:"hiddenDim"`
	// Layers is the number of transformer layers.
	Layers uint64 `json:"numLayers"`
}

// _DefaultArchitectures maps nominal parameter counts to known structural
// dimensions, ordered by increasing parameter count.
var _DefaultArchitectures = []struct {
	Label      string
	Parameters ParametersScalar
	Profile    ArchitectureProfile
}{
	{"1B", 1, ArchitectureProfile{HiddenDimension: 2048, Layers: 22}},
	{"3B", 3, ArchitectureProfile{HiddenDimension: 3072, Layers: 26}},
	{"7B", 7, ArchitectureProfile{HiddenDimension: 4096, Layers: 32}},
	{"13B", 13, ArchitectureProfile{HiddenDimension: 5120, Layers: 40}},
	{"30B", 30, ArchitectureProfile{HiddenDimension: 7168, Layers: 60}},
	{"65B", 65, ArchitectureProfile{HiddenDimension: 8192, Layers: 80}},
	{"120B", 120, ArchitectureProfile{HiddenDimension: 12288, Layers: 96}},
	{"405B", 405, ArchitectureProfile{HiddenDimension: 16384, Layers: 120}},
	{"671B", 671, ArchitectureProfile{HiddenDimension: 20480, Layers: 160}},
}

// ResolveArchitecture returns the structural dimensions for the given
// parameter count, selecting the smallest bucket whose nominal parameter
// count is greater than or equal to the requested one.
// Requests beyond the largest bucket clamp to the largest bucket.
func ResolveArchitecture(params ParametersScalar) (ArchitectureProfile, error) {
	if params <= 0 {
		return ArchitectureProfile{}, fmt.Errorf("%w: parameter count %v must be positive", ErrInvalidArchitecture, float64(params))
	}
	for i := range _DefaultArchitectures {
		if _DefaultArchitectures[i].Parameters >= params {
			return _DefaultArchitectures[i].Profile, nil
		}
	}
	return _DefaultArchitectures[len(_DefaultArchitectures)-1].Profile, nil
}

// EstimateParameters estimates the parameter count in billions from
// structural dimensions, using params ~= hidden_dim^2 x layers x 2.5.
// It is a rough inverse of ResolveArchitecture for callers that supply
// custom dimensions without a parameter count.
func EstimateParameters(p ArchitectureProfile) (ParametersScalar, error) {
	if p.HiddenDimension <= 0 || p.Layers <= 0 {
		return 0, fmt.Errorf("%w: hidden dimension %d and layer count %d must be positive", ErrInvalidArchitecture, p.HiddenDimension, p.Layers)
	}
	params := float64(p.HiddenDimension) * float64(p.HiddenDimension) * float64(p.Layers) * 2.5
	return ParametersScalar(params / _Billion), nil
}
