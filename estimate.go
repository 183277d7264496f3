package vram_estimator

import (
	"fmt"
)

// Mode selects the workload the estimate is for.
type Mode string

const (
	ModeInference Mode = "inference"
	ModeTraining  Mode = "training"
)

// Modality selects the inference overhead profile.
type Modality string

const (
	ModalityText       Modality = "text"
	ModalityAudio      Modality = "audio"
	ModalityVideo      Modality = "video"
	ModalityReasoning  Modality = "reasoning"
	ModalityMultimodal Modality = "multimodal"
)

// _ModalityOverhead is the framework/runtime reservation multiplier per
// inference modality.
var _ModalityOverhead = []struct {
	Modality Modality
	Factor   float64
}{
	{ModalityText, 1.15},
	{ModalityAudio, 1.30},
	{ModalityVideo, 1.40},
	{ModalityReasoning, 1.25},
	{ModalityMultimodal, 1.50},
}

const (
	// _TrainingOverheadFactor is the runtime reservation multiplier for training,
	// regardless of method.
	_TrainingOverheadFactor = 1.2

	// _InferenceActivationFactor is the activation multiplier over weight
	// memory during inference.
	_InferenceActivationFactor = 0.2

	// _CheckpointRetention is the fraction of activation memory retained
	// when gradient checkpointing applies.
	_CheckpointRetention = 0.25

	// _UsableCapacityFactor reserves a fixed share of raw device capacity
	// for system/runtime use when evaluating fit.
	_UsableCapacityFactor = 0.95

	// Legacy binary overhead profile, reasoning versus everything else.
	_SimpleReasoningOverheadFactor = 1.25
	_SimpleDefaultOverheadFactor   = 1.15
)

// ParseModality parses the Modality from the string.
func ParseModality(s string) (Modality, error) {
	m := Modality(s)
	for i := range _ModalityOverhead {
		if _ModalityOverhead[i].Modality == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown modality %q", ErrInvalidWorkload, s)
}

// Types for run estimation.
type (
	// RunEstimate represents the estimated memory demand of running or
	// fine-tuning a model under one configuration.
	RunEstimate struct {
		// Mode describes whether the estimate is for inference or training.
		Mode Mode `json:"mode"`
		// Method is the fine-tuning method, only set for training.
		Method FineTuningMethod `json:"method,omitempty"`
		// MethodDescription is the human-readable summary of Method.
		MethodDescription string `json:"methodDescription,omitempty"`
		// Precision is the precision the weight and KV-cache memory was
		// computed at. For training it comes from the method profile.
		Precision Precision `json:"precision"`
		// Architecture is the resolved structural dimensions.
		Architecture ArchitectureProfile `json:"architecture"`
		// EffectiveBatchSize is the batch size the KV cache was computed at,
		// after gradient accumulation or concurrent-request scaling.
		EffectiveBatchSize float64 `json:"effectiveBatchSize"`
		// Breakdown is the per-component memory demand.
		Breakdown MemoryBreakdown `json:"breakdown"`
		// WillFit indicates whether the total fits the usable capacity.
		WillFit bool `json:"willFit"`
		// NeededVRAM is the total memory demand.
		NeededVRAM GigabytesScalar `json:"neededVRAM"`
		// VRAMPerGPU is the per-device share of the total.
		VRAMPerGPU GigabytesScalar `json:"vramPerGPU"`
		// VRAMUsagePercent is the total against raw (unreserved) capacity.
		VRAMUsagePercent PercentScalar `json:"vramUsagePercent"`
		// Suggestions lists alternative configurations that would fit,
		// only populated when WillFit is false.
		Suggestions []Suggestion `json:"suggestions,omitempty"`
	}

	// MemoryBreakdown represents the per-component memory demand in GB.
	MemoryBreakdown struct {
		// Weights is the memory demand of the model weights.
		Weights GigabytesScalar `json:"modelWeights"`
		// Activation is the memory demand of activations,
		// after any gradient-checkpointing reduction.
		Activation GigabytesScalar `json:"activationMemory"`
		// OptimizerStates is the memory demand of optimizer states,
		// zero for inference.
		OptimizerStates GigabytesScalar `json:"optimizerStates"`
		// KVCache is the memory demand of the KV cache.
		KVCache GigabytesScalar `json:"kvCache"`
		// AdapterOverhead is the memory demand of adapter modules,
		// zero unless an adapter-based method applies.
		AdapterOverhead GigabytesScalar `json:"adapterOverhead"`
		// Base is the sum of the additive components before overhead.
		Base GigabytesScalar `json:"baseVRAM"`
		// OverheadFactor is the multiplier applied once over Base.
		OverheadFactor float64 `json:"overheadFactor"`
		// Total is Base times OverheadFactor.
		Total GigabytesScalar `json:"totalVRAM"`
	}
)

// runConfig is a fully validated configuration, the only shape the
// calculators ever see.
type runConfig struct {
	mode               Mode
	params             ParametersScalar
	arch               ArchitectureProfile
	precision          Precision
	method             FineTuningMethod
	methodProfile      MethodProfile
	gpuMemory          GigabytesScalar
	gpuCount           int
	batchSize          int
	seqLength          int
	gradAccumSteps     int
	concurrentRequests int
	modality           Modality
	simpleOverhead     bool
}

// EstimateRun estimates the memory demand of the configured workload,
// and searches for fitting alternatives when the configuration does not fit.
func EstimateRun(opts ...RunEstimateOption) (RunEstimate, error) {
	var o _RunEstimateOptions
	for _, opt := range opts {
		opt(&o)
	}

	c, err := o.normalize()
	if err != nil {
		return RunEstimate{}, err
	}

	e := estimateRun(c)
	if !e.WillFit && !o.NoSuggestions {
		e.Suggestions = suggestAlternatives(c)
	}
	return e, nil
}

// estimateRun runs the component calculators, the aggregator and the fit
// evaluator over an already validated configuration.
func estimateRun(c runConfig) (e RunEstimate) {
	e.Mode = c.mode
	e.Architecture = c.arch

	precision := c.precision
	activationFactor := _InferenceActivationFactor
	optimizerFactor := 0.0
	adapterFraction := 0.0
	checkpointing := false
	if c.mode == ModeTraining {
		precision = c.methodProfile.WeightPrecision
		activationFactor = c.methodProfile.ActivationFactor
		optimizerFactor = c.methodProfile.OptimizerFactor
		adapterFraction = c.methodProfile.AdapterOverhead
		checkpointing = c.methodProfile.GradientCheckpointing
		e.Method = c.method
		e.MethodDescription = c.methodProfile.Description
	}
	e.Precision = precision

	// Lookup is infallible here, normalize already vetted the precision.
	bytesPerElement, _ := precision.BytesPerElement()

	weights := weightMemory(c.params, bytesPerElement)
	activation := weights * activationFactor
	if checkpointing {
		activation *= _CheckpointRetention
	}
	optimizer := weights * optimizerFactor

	effBatch := effectiveBatchSize(c)
	e.EffectiveBatchSize = effBatch
	kv := kvCacheMemory(c.arch, effBatch, c.seqLength, bytesPerElement)

	adapter := 0.0
	if adapterFraction > 0 {
		adapter = weights * adapterFraction
	}

	base := weights + activation + optimizer + kv + adapter
	overhead := overheadFactor(c)
	total := base * overhead

	// Fit is decided on unrounded values against reserved capacity,
	// while the reported usage percentage runs against raw capacity.
	rawCapacity := float64(c.gpuMemory) * float64(c.gpuCount)
	e.WillFit = total <= rawCapacity*_UsableCapacityFactor

	e.Breakdown = MemoryBreakdown{
		Weights:         GigabytesScalar(round2(weights)),
		Activation:      GigabytesScalar(round2(activation)),
		OptimizerStates: GigabytesScalar(round2(optimizer)),
		KVCache:         GigabytesScalar(round2(kv)),
		AdapterOverhead: GigabytesScalar(round2(adapter)),
		Base:            GigabytesScalar(round2(base)),
		OverheadFactor:  overhead,
		Total:           GigabytesScalar(round2(total)),
	}
	e.NeededVRAM = GigabytesScalar(round2(total))
	e.VRAMPerGPU = GigabytesScalar(round2(total / float64(c.gpuCount)))
	e.VRAMUsagePercent = PercentScalar(round2(total / rawCapacity * 100))

	return e
}

// weightMemory returns the weight memory in GB, exactly linear in both
// the parameter count and the bytes per element.
func weightMemory(params ParametersScalar, bytesPerElement float64) float64 {
	return float64(params) * bytesPerElement
}

// kvCacheMemory returns the KV-cache memory in GB,
// the factor 2 accounts for the key and value tensors.
func kvCacheMemory(arch ArchitectureProfile, batchSize float64, seqLength int, bytesPerElement float64) float64 {
	perToken := float64(arch.HiddenDimension) * 2 * bytesPerElement * float64(arch.Layers) / _Billion
	return batchSize * float64(seqLength) * perToken
}

// effectiveBatchSize returns the batch size the KV cache is computed at.
// Gradient accumulation splits a training batch into smaller steps,
// while concurrent inference requests multiply cache demand.
func effectiveBatchSize(c runConfig) float64 {
	if c.mode == ModeTraining {
		return float64(c.batchSize) / float64(c.gradAccumSteps)
	}
	return float64(c.batchSize) * float64(c.concurrentRequests)
}

// overheadFactor returns the reservation multiplier applied once over the
// summed components.
func overheadFactor(c runConfig) float64 {
	if c.mode == ModeTraining {
		return _TrainingOverheadFactor
	}
	if c.simpleOverhead {
		if c.modality == ModalityReasoning {
			return _SimpleReasoningOverheadFactor
		}
		return _SimpleDefaultOverheadFactor
	}
	for i := range _ModalityOverhead {
		if _ModalityOverhead[i].Modality == c.modality {
			return _ModalityOverhead[i].Factor
		}
	}
	return _SimpleDefaultOverheadFactor
}
