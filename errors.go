package vram_estimator

import "errors"

var (
	// ErrInvalidPrecision indicates a precision name outside the supported table.
	ErrInvalidPrecision = errors.New("invalid precision")
	// ErrInvalidMethod indicates a fine-tuning method name outside the supported table.
	ErrInvalidMethod = errors.New("invalid fine-tuning method")
	// ErrInvalidArchitecture indicates a non-positive parameter count,
	// hidden dimension or layer count.
	ErrInvalidArchitecture = errors.New("invalid architecture")
	// ErrInvalidWorkload indicates a non-positive batch size, sequence length,
	// GPU count, GPU memory, gradient-accumulation steps or concurrent-request count.
	ErrInvalidWorkload = errors.New("invalid workload")
)
