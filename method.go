package vram_estimator

import (
	"fmt"
)

// FineTuningMethod is the name of a fine-tuning method.
type FineTuningMethod string

const (
	FineTuningFull  FineTuningMethod = "full"
	FineTuningLoRA  FineTuningMethod = "lora"
	FineTuningQLoRA FineTuningMethod = "qlora"
)

// MethodProfile describes how a fine-tuning method shapes memory demand.
type MethodProfile struct {
	// Description is a human-readable summary of the method.
	Description string `json:"description"`
	// WeightPrecision is the precision the base model weights are held at.
	WeightPrecision Precision `json:"weightPrecision"`
	// OptimizerFactor is the optimizer-state multiplier over weight memory.
	OptimizerFactor float64 `json:"optimizerFactor"`
	// ActivationFactor is the activation multiplier over weight memory.
	ActivationFactor float64 `json:"activationFactor"`
	// GradientCheckpointing indicates whether checkpointing applies by default.
	GradientCheckpointing bool `json:"gradientCheckpointing"`
	// AdapterOverhead is the adapter memory fraction over weight memory,
	// zero when the method trains the full model.
	AdapterOverhead float64 `json:"adapterOverhead"`
}

// _FineTuningMethods is the supported method table, in suggestion order.
var _FineTuningMethods = []struct {
	Method  FineTuningMethod
	Profile MethodProfile
}{
	{
		FineTuningFull,
		MethodProfile{
			Description:      "Full fine-tuning of all model parameters",
			WeightPrecision:  PrecisionFP16,
			OptimizerFactor:  4.0,
			ActivationFactor: 2.0,
		},
	},
	{
		FineTuningLoRA,
		MethodProfile{
			Description:           "Low-Rank Adaptation with adapter modules",
			WeightPrecision:       PrecisionFP16,
			OptimizerFactor:       0.1,
			ActivationFactor:      1.0,
			GradientCheckpointing: true,
			AdapterOverhead:       0.05,
		},
	},
	{
		FineTuningQLoRA,
		MethodProfile{
			Description:           "Quantized Low-Rank Adaptation with 4-bit quantization",
			WeightPrecision:       PrecisionINT4,
			OptimizerFactor:       0.1,
			ActivationFactor:      0.5,
			GradientCheckpointing: true,
			AdapterOverhead:       0.05,
		},
	},
}

// Profile returns the MethodProfile of the method.
func (m FineTuningMethod) Profile() (MethodProfile, error) {
	for i := range _FineTuningMethods {
		if _FineTuningMethods[i].Method == m {
			return _FineTuningMethods[i].Profile, nil
		}
	}
	return MethodProfile{}, fmt.Errorf("%w: %q", ErrInvalidMethod, string(m))
}

// ParseFineTuningMethod parses the FineTuningMethod from the string.
func ParseFineTuningMethod(s string) (FineTuningMethod, error) {
	m := FineTuningMethod(s)
	if _, err := m.Profile(); err != nil {
		return "", err
	}
	return m, nil
}
