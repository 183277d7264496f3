package vram_estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// applySuggestion re-applies a single suggestion on top of the original
// options; later options win, so appending overrides the perturbed axis.
func applySuggestion(opts []RunEstimateOption, s Suggestion) []RunEstimateOption {
	switch s.Type {
	case SuggestionChangeMethod:
		return append(opts, WithFineTuning(s.Method))
	case SuggestionIncreaseGradAccum:
		return append(opts, WithGradientAccumulation(s.GradAccumSteps))
	case SuggestionReduceBatchSize:
		return append(opts, WithBatchSize(s.BatchSize))
	case SuggestionReduceSequenceLength:
		return append(opts, WithSequenceLength(s.SequenceLength))
	case SuggestionMoreQuantization:
		return append(opts, WithPrecision(s.Precision))
	case SuggestionIncreaseGPUs:
		return append(opts, WithGPUCount(s.GPUCount))
	}
	return opts
}

func TestSuggestAlternatives_FullFineTuning7B(t *testing.T) {
	opts := []RunEstimateOption{
		WithParameterCount(7),
		WithFineTuning(FineTuningFull),
		WithGPUMemory(24),
		WithBatchSize(8),
		WithSequenceLength(2048),
	}
	e, err := EstimateRun(opts...)
	assert.NoError(t, err)
	assert.False(t, e.WillFit)

	// On a single 24 GB device, only switching to QLoRA rescues a full
	// 7B fine-tune; no bounded batch/sequence/accumulation/GPU change does.
	assert.Len(t, e.Suggestions, 1)
	assert.Equal(t, SuggestionChangeMethod, e.Suggestions[0].Type)
	assert.Equal(t, FineTuningQLoRA, e.Suggestions[0].Method)
	assert.Equal(t, GigabytesScalar(7.93), e.Suggestions[0].NeededVRAM)
}

func TestSuggestAlternatives_QLoRAOnSmallGPU(t *testing.T) {
	opts := []RunEstimateOption{
		WithParameterCount(7),
		WithFineTuning(FineTuningQLoRA),
		WithGPUMemory(8),
		WithBatchSize(8),
		WithSequenceLength(2048),
	}
	e, err := EstimateRun(opts...)
	assert.NoError(t, err)
	assert.False(t, e.WillFit)

	types := make([]SuggestionType, 0, len(e.Suggestions))
	for _, s := range e.Suggestions {
		types = append(types, s.Type)
	}
	// Axes report in fixed priority order; no method downgrade exists from
	// QLoRA, and training never suggests quantization.
	assert.Equal(t, []SuggestionType{
		SuggestionIncreaseGradAccum,
		SuggestionReduceBatchSize,
		SuggestionReduceSequenceLength,
		SuggestionIncreaseGPUs,
	}, types)
	assert.Equal(t, 2, e.Suggestions[0].GradAccumSteps)
	assert.Equal(t, 4, e.Suggestions[1].BatchSize)
	assert.Equal(t, 1024, e.Suggestions[2].SequenceLength)
	assert.Equal(t, 2, e.Suggestions[3].GPUCount)
}

func TestSuggestAlternatives_Inference(t *testing.T) {
	opts := []RunEstimateOption{
		WithParameterCount(6.85),
		WithPrecision(PrecisionQ8),
		WithGPUMemory(24),
		WithBatchSize(32),
		WithSequenceLength(2048),
		WithModality(ModalityReasoning),
	}
	e, err := EstimateRun(opts...)
	assert.NoError(t, err)
	assert.False(t, e.WillFit)

	types := make([]SuggestionType, 0, len(e.Suggestions))
	for _, s := range e.Suggestions {
		types = append(types, s.Type)
	}
	assert.Equal(t, []SuggestionType{
		SuggestionReduceBatchSize,
		SuggestionReduceSequenceLength,
		SuggestionMoreQuantization,
		SuggestionIncreaseGPUs,
	}, types)

	// First-fit-wins within an axis: halving works, so 1 is never tried.
	assert.Equal(t, 16, e.Suggestions[0].BatchSize)
	assert.Equal(t, 1024, e.Suggestions[1].SequenceLength)
	assert.Equal(t, PrecisionQ4, e.Suggestions[2].Precision)
	assert.Equal(t, 2, e.Suggestions[3].GPUCount)
}

func TestSuggestAlternatives_Soundness(t *testing.T) {
	cases := []struct {
		name string
		opts []RunEstimateOption
	}{
		{
			"full fine-tune on 24G",
			[]RunEstimateOption{
				WithParameterCount(7),
				WithFineTuning(FineTuningFull),
				WithGPUMemory(24),
				WithBatchSize(8),
				WithSequenceLength(2048),
			},
		},
		{
			"qlora on 8G",
			[]RunEstimateOption{
				WithParameterCount(7),
				WithFineTuning(FineTuningQLoRA),
				WithGPUMemory(8),
				WithBatchSize(8),
				WithSequenceLength(2048),
			},
		},
		{
			"reasoning inference on 24G",
			[]RunEstimateOption{
				WithParameterCount(6.85),
				WithPrecision(PrecisionQ8),
				WithGPUMemory(24),
				WithBatchSize(32),
				WithSequenceLength(2048),
				WithModality(ModalityReasoning),
			},
		},
		{
			"13B inference on 12G",
			[]RunEstimateOption{
				WithParameterCount(13),
				WithPrecision(PrecisionFP16),
				WithGPUMemory(12),
				WithBatchSize(4),
				WithSequenceLength(4096),
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := EstimateRun(tc.opts...)
			assert.NoError(t, err)
			assert.False(t, e.WillFit)
			assert.NotEmpty(t, e.Suggestions)

			// Every suggestion, applied alone, must make the original fit.
			for _, s := range e.Suggestions {
				ee, err := EstimateRun(append(applySuggestion(tc.opts, s), WithoutSuggestions())...)
				assert.NoError(t, err)
				assert.True(t, ee.WillFit, "suggestion %v", s)
				assert.Equal(t, s.NeededVRAM, ee.NeededVRAM, "suggestion %v", s)
			}
		})
	}
}

func TestSuggestAlternatives_SkippedWhenFitting(t *testing.T) {
	e, err := EstimateRun(
		WithParameterCount(7),
		WithPrecision(PrecisionINT4),
		WithGPUMemory(24))
	assert.NoError(t, err)
	assert.True(t, e.WillFit)
	assert.Empty(t, e.Suggestions)
}

func TestSuggestAlternatives_Disabled(t *testing.T) {
	e, err := EstimateRun(
		WithParameterCount(7),
		WithFineTuning(FineTuningFull),
		WithGPUMemory(24),
		WithBatchSize(8),
		WithoutSuggestions())
	assert.NoError(t, err)
	assert.False(t, e.WillFit)
	assert.Empty(t, e.Suggestions)
}

func TestSuggestAlternatives_GPUAxisBound(t *testing.T) {
	// The GPU axis never runs at 8 or more devices.
	e, err := EstimateRun(
		WithParameterCount(671),
		WithFineTuning(FineTuningFull),
		WithGPUMemory(24),
		WithGPUCount(8),
		WithBatchSize(8),
		WithSequenceLength(2048))
	assert.NoError(t, err)
	assert.False(t, e.WillFit)
	for _, s := range e.Suggestions {
		assert.NotEqual(t, SuggestionIncreaseGPUs, s.Type)
	}
}
