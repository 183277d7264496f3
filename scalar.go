package vram_estimator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	_Thousand = 1e3
	_Million  = 1e6
	_Billion  = 1e9
	_Trillion = 1e12
)

type (
	// GigabytesScalar is the scalar for memory sizes in GB.
	GigabytesScalar float64

	// ParametersScalar is the scalar for parameter counts in billions.
	ParametersScalar float64

	// PercentScalar is the scalar for percentages.
	PercentScalar float64
)

// _ParametersBaseUnitMatrix is the base unit matrix for parameter counts,
// relative to billions.
var _ParametersBaseUnitMatrix = []struct {
	Base float64
	Unit string
}{
	{_Trillion / _Billion, "T"},
	{_Billion / _Billion, "B"},
	{_Million / _Billion, "M"},
	{_Thousand / _Billion, "K"},
}

// ParseGigabytesScalar parses the GigabytesScalar from the string,
// accepting a bare number or a "GB"/"GiB" suffixed one.
func ParseGigabytesScalar(s string) (_ GigabytesScalar, err error) {
	if s == "" {
		return 0, errors.New("invalid GigabytesScalar")
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "GiB"), "GB")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return GigabytesScalar(f), nil
}

func (s GigabytesScalar) String() string {
	if s == 0 {
		return "0 GB"
	}
	f := strconv.FormatFloat(float64(s), 'f', 2, 64)
	return strings.TrimSuffix(f, ".00") + " GB"
}

// ParseParametersScalar parses the ParametersScalar from the string,
// accepting a bare billions number or a "K"/"M"/"B"/"T" suffixed one,
// e.g. "7B", "6.85", "770M".
func ParseParametersScalar(s string) (_ ParametersScalar, err error) {
	if s == "" {
		return 0, errors.New("invalid ParametersScalar")
	}
	b := float64(1)
	for i := range _ParametersBaseUnitMatrix {
		if strings.HasSuffix(s, _ParametersBaseUnitMatrix[i].Unit) {
			b = _ParametersBaseUnitMatrix[i].Base
			s = strings.TrimSuffix(s, _ParametersBaseUnitMatrix[i].Unit)
			break
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return ParametersScalar(f * b), nil
}

func (s ParametersScalar) String() string {
	if s == 0 {
		return "0"
	}
	b, u := float64(1), "B"
	for i := range _ParametersBaseUnitMatrix {
		if float64(s) >= _ParametersBaseUnitMatrix[i].Base {
			b = _ParametersBaseUnitMatrix[i].Base
			u = _ParametersBaseUnitMatrix[i].Unit
			break
		}
	}
	f := strconv.FormatFloat(float64(s)/b, 'f', 2, 64)
	return strings.TrimSuffix(f, ".00") + u
}

func (s PercentScalar) String() string {
	f := strconv.FormatFloat(float64(s), 'f', 2, 64)
	return strings.TrimSuffix(f, ".00") + " %"
}

// round2 rounds to two decimals, which is the resolution of all reported
// memory quantities.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
