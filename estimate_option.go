package vram_estimator

import (
	"fmt"

	"github.com/gpustack/vram-estimator-go/util/ptr"
)

type (
	_RunEstimateOptions struct {
		Parameters         *ParametersScalar
		HiddenDimension    *uint64
		Layers             *uint64
		Precision          *Precision
		Method             *FineTuningMethod
		GPUMemory          *GigabytesScalar
		GPUCount           *int
		BatchSize          *int
		SequenceLength     *int
		GradAccumSteps     *int
		ConcurrentRequests *int
		Modality           *Modality
		SimpleOverhead     bool
		NoSuggestions      bool
	}

	// RunEstimateOption is the option for the estimate.
	RunEstimateOption func(*_RunEstimateOptions)
)

// WithParameterCount sets the model size in billions of parameters.
func WithParameterCount(params ParametersScalar) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.Parameters = ptr.To(params)
	}
}

// WithArchitecture declares custom structural dimensions,
// bypassing the bucket table.
func WithArchitecture(hiddenDimension, layers uint64) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.HiddenDimension = ptr.To(hiddenDimension)
		o.Layers = ptr.To(layers)
	}
}

// WithPrecision sets the precision for inference weights and KV cache.
func WithPrecision(p Precision) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.Precision = ptr.To(p)
	}
}

// WithFineTuning switches the estimate to training mode with the given method.
func WithFineTuning(m FineTuningMethod) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.Method = ptr.To(m)
	}
}

// WithGPUMemory sets the VRAM capacity per device in GB.
func WithGPUMemory(m GigabytesScalar) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.GPUMemory = ptr.To(m)
	}
}

// WithGPUCount sets the number of devices.
func WithGPUCount(n int) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.GPUCount = ptr.To(n)
	}
}

// WithBatchSize sets the batch size.
func WithBatchSize(n int) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.BatchSize = ptr.To(n)
	}
}

// WithSequenceLength sets the sequence length.
func WithSequenceLength(n int) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.SequenceLength = ptr.To(n)
	}
}

// WithGradientAccumulation sets the gradient-accumulation step count,
// training only.
func WithGradientAccumulation(steps int) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.GradAccumSteps = ptr.To(steps)
	}
}

// WithConcurrentRequests sets the concurrent-request count, inference only.
func WithConcurrentRequests(n int) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.ConcurrentRequests = ptr.To(n)
	}
}

// WithModality selects the inference overhead profile.
func WithModality(m Modality) RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.Modality = ptr.To(m)
	}
}

// WithSimpleOverhead switches to the legacy binary overhead profile,
// which only distinguishes reasoning from everything else.
func WithSimpleOverhead() RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.SimpleOverhead = true
	}
}

// WithoutSuggestions disables the remediation search for non-fitting
// configurations.
func WithoutSuggestions() RunEstimateOption {
	return func(o *_RunEstimateOptions) {
		o.NoSuggestions = true
	}
}

// normalize validates the options and resolves them into a runConfig.
// All validation happens here, before any calculator runs.
func (o *_RunEstimateOptions) normalize() (c runConfig, err error) {
	c.mode = ModeInference
	if o.Method != nil {
		c.mode = ModeTraining
		c.method = *o.Method
		c.methodProfile, err = c.method.Profile()
		if err != nil {
			return runConfig{}, err
		}
	}

	c.precision = ptr.Deref(o.Precision, PrecisionFP16)
	if _, err = c.precision.BytesPerElement(); err != nil {
		return runConfig{}, err
	}

	// Architecture: an explicit override wins as declared, otherwise the
	// bucket table resolves the parameter count.
	switch {
	case o.HiddenDimension != nil || o.Layers != nil:
		if o.HiddenDimension == nil || o.Layers == nil {
			return runConfig{}, fmt.Errorf("%w: both hidden dimension and layer count are required for a custom architecture", ErrInvalidArchitecture)
		}
		c.arch = ArchitectureProfile{HiddenDimension: *o.HiddenDimension, Layers: *o.Layers}
		if c.arch.HiddenDimension <= 0 || c.arch.Layers <= 0 {
			return runConfig{}, fmt.Errorf("%w: hidden dimension %d and layer count %d must be positive", ErrInvalidArchitecture, c.arch.HiddenDimension, c.arch.Layers)
		}
		if o.Parameters != nil {
			c.params = *o.Parameters
			if c.params <= 0 {
				return runConfig{}, fmt.Errorf("%w: parameter count %v must be positive", ErrInvalidArchitecture, float64(c.params))
			}
		} else {
			c.params, err = EstimateParameters(c.arch)
			if err != nil {
				return runConfig{}, err
			}
		}
	case o.Parameters != nil:
		c.params = *o.Parameters
		c.arch, err = ResolveArchitecture(c.params)
		if err != nil {
			return runConfig{}, err
		}
	default:
		return runConfig{}, fmt.Errorf("%w: a parameter count or custom dimensions are required", ErrInvalidArchitecture)
	}

	c.gpuMemory = ptr.Deref(o.GPUMemory, 24)
	if c.gpuMemory <= 0 {
		return runConfig{}, fmt.Errorf("%w: GPU memory %v must be positive", ErrInvalidWorkload, float64(c.gpuMemory))
	}
	c.gpuCount = ptr.Deref(o.GPUCount, 1)
	if c.gpuCount < 1 {
		return runConfig{}, fmt.Errorf("%w: GPU count %d must be at least 1", ErrInvalidWorkload, c.gpuCount)
	}
	c.batchSize = ptr.Deref(o.BatchSize, 1)
	if c.batchSize < 1 {
		return runConfig{}, fmt.Errorf("%w: batch size %d must be at least 1", ErrInvalidWorkload, c.batchSize)
	}
	c.seqLength = ptr.Deref(o.SequenceLength, 2048)
	if c.seqLength < 1 {
		return runConfig{}, fmt.Errorf("%w: sequence length %d must be at least 1", ErrInvalidWorkload, c.seqLength)
	}
	c.gradAccumSteps = ptr.Deref(o.GradAccumSteps, 1)
	if c.gradAccumSteps < 1 {
		return runConfig{}, fmt.Errorf("%w: gradient-accumulation steps %d must be at least 1", ErrInvalidWorkload, c.gradAccumSteps)
	}
	c.concurrentRequests = ptr.Deref(o.ConcurrentRequests, 1)
	if c.concurrentRequests < 1 {
		return runConfig{}, fmt.Errorf("%w: concurrent requests %d must be at least 1", ErrInvalidWorkload, c.concurrentRequests)
	}

	c.modality = ptr.Deref(o.Modality, ModalityText)
	if _, err = ParseModality(string(c.modality)); err != nil {
		return runConfig{}, err
	}
	c.simpleOverhead = o.SimpleOverhead

	return c, nil
}
