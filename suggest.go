package vram_estimator

// SuggestionType tags the axis a suggestion perturbs.
type SuggestionType string

const (
	SuggestionChangeMethod         SuggestionType = "change_method"
	SuggestionIncreaseGradAccum    SuggestionType = "increase_grad_accum"
	SuggestionReduceBatchSize      SuggestionType = "reduce_batch_size"
	SuggestionReduceSequenceLength SuggestionType = "reduce_sequence_length"
	SuggestionMoreQuantization     SuggestionType = "more_quantization"
	SuggestionIncreaseGPUs         SuggestionType = "increase_gpus"
)

// Suggestion represents a single-parameter change that, applied alone to
// the original configuration, makes it fit.
type Suggestion struct {
	// Type is the axis the suggestion perturbs.
	Type SuggestionType `json:"type"`
	// Method is the suggested fine-tuning method, for change_method.
	Method FineTuningMethod `json:"method,omitempty"`
	// GradAccumSteps is the suggested step count, for increase_grad_accum.
	GradAccumSteps int `json:"gradAccumSteps,omitempty"`
	// BatchSize is the suggested batch size, for reduce_batch_size.
	BatchSize int `json:"batchSize,omitempty"`
	// SequenceLength is the suggested length, for reduce_sequence_length.
	SequenceLength int `json:"sequenceLength,omitempty"`
	// Precision is the suggested quantization, for more_quantization.
	Precision Precision `json:"precision,omitempty"`
	// GPUCount is the suggested device count, for increase_gpus.
	GPUCount int `json:"numGPUs,omitempty"`
	// NeededVRAM is the total memory demand under the suggestion.
	NeededVRAM GigabytesScalar `json:"neededVRAM"`
}

// _QuantizationCandidates are the precisions the quantization axis tries,
// in order of preference.
var _QuantizationCandidates = []Precision{PrecisionQ4, PrecisionQ2}

// suggestAlternatives perturbs one axis at a time against the original
// configuration and re-runs the pipeline per candidate. Axes are never
// combined; apart from the method axis, each axis stops at its first fit.
func suggestAlternatives(c runConfig) (ss []Suggestion) {
	// Alternate fine-tuning methods, every one that fits.
	if c.mode == ModeTraining {
		for i := range _FineTuningMethods {
			m := _FineTuningMethods[i].Method
			if m == c.method {
				continue
			}
			cc := c
			cc.method = m
			cc.methodProfile = _FineTuningMethods[i].Profile
			if e := estimateRun(cc); e.WillFit {
				ss = append(ss, Suggestion{
					Type:       SuggestionChangeMethod,
					Method:     m,
					NeededVRAM: e.NeededVRAM,
				})
			}
		}
	}

	// Gradient accumulation, first fitting step count above the current one.
	if c.mode == ModeTraining {
		for _, steps := range []int{2, 4, 8} {
			if steps <= c.gradAccumSteps {
				continue
			}
			cc := c
			cc.gradAccumSteps = steps
			if e := estimateRun(cc); e.WillFit {
				ss = append(ss, Suggestion{
					Type:           SuggestionIncreaseGradAccum,
					GradAccumSteps: steps,
					NeededVRAM:     e.NeededVRAM,
				})
				break
			}
		}
	}

	// Batch-size reduction.
	if c.batchSize > 1 {
		for _, batch := range []int{c.batchSize / 2, 1} {
			cc := c
			cc.batchSize = batch
			if e := estimateRun(cc); e.WillFit {
				ss = append(ss, Suggestion{
					Type:       SuggestionReduceBatchSize,
					BatchSize:  batch,
					NeededVRAM: e.NeededVRAM,
				})
				break
			}
		}
	}

	// Sequence-length reduction.
	if c.seqLength > 512 {
		for _, seq := range []int{c.seqLength / 2, 1024, 512} {
			cc := c
			cc.seqLength = seq
			if e := estimateRun(cc); e.WillFit {
				ss = append(ss, Suggestion{
					Type:           SuggestionReduceSequenceLength,
					SequenceLength: seq,
					NeededVRAM:     e.NeededVRAM,
				})
				break
			}
		}
	}

	// More aggressive quantization, inference only: training precision is
	// dictated by the method profile.
	if c.mode == ModeInference {
		current, _ := c.precision.BytesPerElement()
		for _, p := range _QuantizationCandidates {
			bytes, _ := p.BytesPerElement()
			if bytes >= current {
				continue
			}
			cc := c
			cc.precision = p
			if e := estimateRun(cc); e.WillFit {
				ss = append(ss, Suggestion{
					Type:       SuggestionMoreQuantization,
					Precision:  p,
					NeededVRAM: e.NeededVRAM,
				})
				break
			}
		}
	}

	// GPU-count increase.
	if c.gpuCount < 8 {
		for _, gpus := range []int{c.gpuCount + 1, c.gpuCount * 2} {
			cc := c
			cc.gpuCount = gpus
			if e := estimateRun(cc); e.WillFit {
				ss = append(ss, Suggestion{
					Type:       SuggestionIncreaseGPUs,
					GPUCount:   gpus,
					NeededVRAM: e.NeededVRAM,
				})
				break
			}
		}
	}

	return ss
}
