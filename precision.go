package vram_estimator

import (
	"fmt"
)

// Precision is the name of a precision or quantization level.
type Precision string

const (
	PrecisionFP32 Precision = "FP32"
	PrecisionFP16 Precision = "FP16"
	PrecisionBF16 Precision = "BF16"
	PrecisionINT8 Precision = "INT8"
	PrecisionQ8   Precision = "Q8"
	PrecisionQ6   Precision = "Q6"
	PrecisionQ5   Precision = "Q5"
	PrecisionINT4 Precision = "INT4"
	PrecisionQ4   Precision = "Q4"
	PrecisionQ2   Precision = "Q2"
)

// _PrecisionBytes maps precision names to bytes per element,
// ordered by decreasing width so that "more aggressive than X" walks
// are a simple forward scan.
var _PrecisionBytes = []struct {
	Precision Precision
	Bytes     float64
}{
	{PrecisionFP32, 4.0},
	{PrecisionFP16, 2.0},
	{PrecisionBF16, 2.0},
	{PrecisionINT8, 1.0},
	{PrecisionQ8, 1.0},
	{PrecisionQ6, 0.75},
	{PrecisionQ5, 0.625},
	{PrecisionINT4, 0.5},
	{PrecisionQ4, 0.5},
	{PrecisionQ2, 0.25},
}

// BytesPerElement returns the storage cost of one element at the precision.
func (p Precision) BytesPerElement() (float64, error) {
	for i := range _PrecisionBytes {
		if _PrecisionBytes[i].Precision == p {
			return _PrecisionBytes[i].Bytes, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPrecision, string(p))
}

// ParsePrecision parses the Precision from the string, case-sensitively.
func ParsePrecision(s string) (Precision, error) {
	p := Precision(s)
	if _, err := p.BytesPerElement(); err != nil {
		return "", err
	}
	return p, nil
}
