package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/gpustack/vram-estimator-go/util/anyx"
	"github.com/gpustack/vram-estimator-go/util/json"

	. "github.com/gpustack/vram-estimator-go"
)

var Version = "v0.0.0"

func main() {
	// Parse arguments.

	var (
		// model options
		params    string
		hiddenDim uint64
		numLayers uint64
		precision = "FP16"
		// workload options
		finetune           string
		gpu                = "24"
		numGPUs            = 1
		batchSize          = 1
		seqLength          = 2048
		gradAccum          = 1
		concurrentRequests = 1
		modality           = "text"
		simpleOverhead     bool
		// output options
		version      bool
		skipSuggest  bool
		listGPUs     bool
		inJson       bool
		inPrettyJson = true
	)
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage of vram-estimator %v:\n", Version)
		fs.PrintDefaults()
	}
	fs.StringVar(&params, "params", params, "Parameter count of the model, "+
		"accepts a billions number or a suffixed size, e.g. 7B, 6.85, 770M.")
	fs.Uint64Var(&hiddenDim, "hidden-dim", hiddenDim, "Custom hidden dimension, optional, "+
		"works with --num-layers and bypasses the built-in architecture table.")
	fs.Uint64Var(&numLayers, "num-layers", numLayers, "Custom layer count, optional, "+
		"works with --hidden-dim.")
	fs.StringVar(&precision, "precision", precision, "Precision/quantization level for inference, e.g. "+
		"FP32, FP16, BF16, INT8, Q8, Q6, Q5, INT4, Q4, Q2. "+
		"Training ignores this, the fine-tuning method dictates the precision.")
	fs.StringVar(&finetune, "finetune", finetune, "Fine-tuning method to estimate training for, "+
		"one of full, lora, qlora. Leave empty for inference.")
	fs.StringVar(&gpu, "gpu", gpu, "GPU memory per device in GB, or a known device name, e.g. "+
		"\"RTX 4090\", \"A100-80G\", \"H100\". Unrecognized values fall back to 24.")
	fs.IntVar(&numGPUs, "num-gpus", numGPUs, "Number of devices.")
	fs.IntVar(&batchSize, "batch-size", batchSize, "Batch size.")
	fs.IntVar(&seqLength, "seq-length", seqLength, "Sequence length.")
	fs.IntVar(&gradAccum, "grad-accum", gradAccum, "Gradient-accumulation steps, training only.")
	fs.IntVar(&concurrentRequests, "concurrent-requests", concurrentRequests, "Concurrent requests, inference only.")
	fs.StringVar(&modality, "modality", modality, "Inference modality for the overhead profile, one of "+
		"text, audio, video, reasoning, multimodal.")
	fs.BoolVar(&simpleOverhead, "simple-overhead", simpleOverhead, "Use the legacy binary overhead profile, "+
		"which only distinguishes reasoning from everything else.")
	fs.BoolVar(&version, "version", version, "Show vram-estimator version.")
	fs.BoolVar(&skipSuggest, "skip-suggest", skipSuggest, "Skip searching fitting alternatives "+
		"when the configuration does not fit.")
	fs.BoolVar(&listGPUs, "list-gpus", listGPUs, "List the known GPU names and exit.")
	fs.BoolVar(&inJson, "json", inJson, "Output as JSON.")
	fs.BoolVar(&inPrettyJson, "json-pretty", inPrettyJson, "Output as pretty indented JSON, works with --json.")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	if version {
		fmt.Printf("vram-estimator %s\n", Version)
		return
	}

	if listGPUs {
		bd := make([][]string, 0, len(GPUNames()))
		for _, n := range GPUNames() {
			m, _ := LookupGPUMemory(n)
			bd = append(bd, []string{n, sprintf(m)})
		}
		tprint("GPUS", []string{"Name", "Memory"}, nil, bd...)
		return
	}

	// Assemble options.

	opts := []RunEstimateOption{
		WithGPUCount(numGPUs),
		WithBatchSize(batchSize),
		WithSequenceLength(seqLength),
	}
	if params != "" {
		p, err := ParseParametersScalar(params)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to parse --params: %s\n", err.Error())
			os.Exit(1)
		}
		opts = append(opts, WithParameterCount(p))
	}
	if hiddenDim > 0 || numLayers > 0 {
		opts = append(opts, WithArchitecture(hiddenDim, numLayers))
	}
	opts = append(opts, WithGPUMemory(resolveGPUMemory(gpu)))
	if finetune != "" {
		m, err := ParseFineTuningMethod(finetune)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to parse --finetune: %s\n", err.Error())
			os.Exit(1)
		}
		opts = append(opts, WithFineTuning(m), WithGradientAccumulation(gradAccum))
	} else {
		p, err := ParsePrecision(precision)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to parse --precision: %s\n", err.Error())
			os.Exit(1)
		}
		md, err := ParseModality(modality)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to parse --modality: %s\n", err.Error())
			os.Exit(1)
		}
		opts = append(opts, WithPrecision(p), WithModality(md), WithConcurrentRequests(concurrentRequests))
	}
	if simpleOverhead {
		opts = append(opts, WithSimpleOverhead())
	}
	if skipSuggest {
		opts = append(opts, WithoutSuggestions())
	}

	// Estimate.

	e, err := EstimateRun(opts...)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPrecision),
			errors.Is(err, ErrInvalidMethod),
			errors.Is(err, ErrInvalidArchitecture),
			errors.Is(err, ErrInvalidWorkload):
			_, _ = fmt.Fprintf(os.Stderr, "invalid configuration: %s\n", err.Error())
		default:
			_, _ = fmt.Fprintf(os.Stderr, "failed to estimate: %s\n", err.Error())
		}
		os.Exit(1)
	}

	// Then, output as JSON or table.

	if inJson {
		enc := json.NewEncoder(os.Stdout)
		if inPrettyJson {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(e); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to encode JSON: %s\n", err.Error())
			os.Exit(1)
		}
		return
	}

	tprint(
		"ESTIMATE",
		[]string{"Mode", "Method", "Precision", "Hidden Dim", "Layers", "Will Fit", "Needed VRAM", "VRAM / GPU", "Usage"},
		nil,
		[]string{
			string(e.Mode),
			sprintf(tenary(e.Method == "", "N/A", e.Method)),
			string(e.Precision),
			sprintf(e.Architecture.HiddenDimension),
			sprintf(e.Architecture.Layers),
			sprintf(e.WillFit),
			sprintf(e.NeededVRAM),
			sprintf(e.VRAMPerGPU),
			sprintf(e.VRAMUsagePercent),
		})

	tprint(
		"BREAKDOWN",
		[]string{"Weights", "Activations", "Optimizer States", "KV Cache", "Adapter Overhead", "Base", "Overhead Factor", "Total"},
		nil,
		[]string{
			sprintf(e.Breakdown.Weights),
			sprintf(e.Breakdown.Activation),
			sprintf(e.Breakdown.OptimizerStates),
			sprintf(e.Breakdown.KVCache),
			sprintf(tenary(e.Breakdown.AdapterOverhead == 0, "N/A", e.Breakdown.AdapterOverhead)),
			sprintf(e.Breakdown.Base),
			sprintf("%.2fx", e.Breakdown.OverheadFactor),
			sprintf(e.Breakdown.Total),
		})

	if len(e.Suggestions) != 0 {
		bd := make([][]string, 0, len(e.Suggestions))
		for _, s := range e.Suggestions {
			bd = append(bd, []string{
				string(s.Type),
				suggestionValue(s),
				sprintf(s.NeededVRAM),
			})
		}
		tprint("SUGGESTIONS", []string{"Change", "New Value", "Needed VRAM"}, nil, bd...)
	}
}

// resolveGPUMemory resolves the --gpu input as a known device name first,
// then as a plain number, falling back to 24 when neither works.
func resolveGPUMemory(s string) GigabytesScalar {
	m, ok := LookupGPUMemory(s)
	if !ok {
		m = GigabytesScalar(anyx.Number[float64](s))
	}
	if m <= 0 {
		return 24
	}
	return m
}

func suggestionValue(s Suggestion) string {
	switch s.Type {
	case SuggestionChangeMethod:
		return string(s.Method)
	case SuggestionIncreaseGradAccum:
		return sprintf(s.GradAccumSteps)
	case SuggestionReduceBatchSize:
		return sprintf(s.BatchSize)
	case SuggestionReduceSequenceLength:
		return sprintf(s.SequenceLength)
	case SuggestionMoreQuantization:
		return string(s.Precision)
	case SuggestionIncreaseGPUs:
		return sprintf(s.GPUCount)
	}
	return ""
}

func sprintf(f any, a ...any) string {
	if v, ok := f.(string); ok {
		if len(a) != 0 {
			return fmt.Sprintf(v, a...)
		}
		return v
	}
	return anyx.String(f)
}

func tprint(title string, header []string, merges []int, body ...[]string) {
	title = strings.ToUpper(title)

	tb := tablewriter.NewWriter(os.Stdout)

	tb.SetTablePadding("\t")
	tb.SetAlignment(tablewriter.ALIGN_CENTER)
	tb.SetHeaderLine(true)
	tb.SetRowLine(true)

	tb.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	tb.SetAutoFormatHeaders(false)
	tb.SetHeader(append([]string{"\\"}, header...))

	tb.SetAutoWrapText(false)
	tb.SetColMinWidth(0, 12)
	tb.SetAutoMergeCellsByColumnIndex(func() (r []int) {
		if len(merges) == 0 {
			return []int{0}
		}
		r = make([]int, 0, len(merges)+1)
		for i := range merges {
			r = append(r, merges[i]+1)
		}
		return append(r, 0)
	}())
	for i := range body {
		tb.Append(append([]string{title}, body[i]...))
	}

	tb.Render()
	fmt.Println()
}

func tenary(c bool, t, f any) any {
	if c {
		return t
	}
	return f
}
