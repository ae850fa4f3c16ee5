package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/feature"
	"github.com/RyanBlaney/sonido-features/feature/post"
	"github.com/RyanBlaney/sonido-features/feature/pre"
	"github.com/RyanBlaney/sonido-features/feature/registry"
	"github.com/RyanBlaney/sonido-features/logging"
)

// pipelineConfig mirrors the YAML layout of a pipeline file:
//
//	pre:
//	  - name: preemph
//	    coefficient: 0.97
//	computer:
//	  name: stft
//	  bank: {name: tri, num_filters: 40}
//	post:
//	  - name: deltas
type pipelineConfig struct {
	Pre      []map[string]any `yaml:"pre"`
	Computer map[string]any   `yaml:"computer"`
	Post     []map[string]any `yaml:"post"`
}

type computeOptions struct {
	configPath string
	outputPath string
	format     string
	chunkSize  int
	verbose    bool
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sonarfeat",
		Short:         "Compute acoustic feature matrices from audio files",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.AddCommand(newComputeCommand())
	return rootCmd
}

func newComputeCommand() *cobra.Command {
	options := &computeOptions{}

	cmd := &cobra.Command{
		Use:   "compute <input.wav>",
		Short: "Run a feature pipeline over a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.verbose {
				logging.SetLevel(logging.DebugLevel)
			}
			return runCompute(args[0], options)
		},
	}

	cmd.Flags().StringVarP(&options.configPath, "config", "c", "",
		"Pipeline configuration file (YAML). Required.")
	cmd.Flags().StringVarP(&options.outputPath, "output", "o", "-",
		"Output file. '-' writes to stdout.")
	cmd.Flags().StringVarP(&options.format, "format", "f", "json",
		"Output format: json or csv")
	cmd.Flags().IntVar(&options.chunkSize, "chunk", 0,
		"Feed the signal in chunks of N samples through the streaming path (0 = batch)")
	cmd.Flags().BoolVarP(&options.verbose, "verbose", "v", false,
		"Show debug output")
	cmd.MarkFlagRequired("config")

	return cmd
}

func runCompute(inputPath string, options *computeOptions) error {
	if options.format != "json" && options.format != "csv" {
		return fmt.Errorf("unknown output format %q", options.format)
	}

	config, err := loadPipelineConfig(options.configPath)
	if err != nil {
		return err
	}

	signal, sampleRate, err := readWAV(inputPath)
	if err != nil {
		return err
	}
	logging.Debug("decoded input", logging.Fields{
		"path":        inputPath,
		"samples":     len(signal),
		"sample_rate": sampleRate,
	})

	preChain, computer, postChain, err := buildPipeline(config, sampleRate)
	if err != nil {
		return err
	}

	if options.chunkSize > 0 {
		if err := checkStreamable(postChain); err != nil {
			return err
		}
	}

	signal = preChain.Apply(signal)

	var feats [][]float64
	if options.chunkSize > 0 {
		feats, err = computeStreaming(computer, signal, options.chunkSize)
	} else {
		feats, err = computer.ComputeFull(signal)
	}
	if err != nil {
		return err
	}

	feats, err = postChain.Apply(feats)
	if err != nil {
		return err
	}
	logging.Debug("pipeline finished", logging.Fields{
		"frames": len(feats),
		"coeffs": postChain.OutputWidth(),
	})

	return writeFeatures(feats, options.outputPath, options.format)
}

func loadPipelineConfig(path string) (*pipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config: %w", err)
	}
	config := &pipelineConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline config: %w", err)
	}
	if config.Computer == nil {
		return nil, fmt.Errorf("pipeline config %s has no computer section", path)
	}
	return config, nil
}

func buildPipeline(config *pipelineConfig, sampleRate float64) (pre.Chain, feature.Computer, *post.Chain, error) {
	r := registry.NewWithDefaults()

	preChain := make(pre.Chain, 0, len(config.Pre))
	for _, stage := range config.Pre {
		transform, err := r.ConstructPre(stage)
		if err != nil {
			return nil, nil, nil, err
		}
		preChain = append(preChain, transform)
	}

	computerCfg := config.Computer
	if _, ok := computerCfg["sample_rate"]; !ok {
		// the decoded file supplies the rate unless the config pins one
		computerCfg = withSampleRate(computerCfg, sampleRate)
	}
	computer, err := r.ConstructComputer(computerCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if computer.SampleRate() != sampleRate {
		logging.Warn("configured sample rate differs from input file", logging.Fields{
			"configured": computer.SampleRate(),
			"file":       sampleRate,
		})
	}

	stages := make([]post.Transform, 0, len(config.Post))
	for _, stage := range config.Post {
		transform, err := r.ConstructPost(stage)
		if err != nil {
			return nil, nil, nil, err
		}
		stages = append(stages, transform)
	}
	postChain, err := post.NewChain(computer.NumCoeffs(), stages...)
	if err != nil {
		return nil, nil, nil, err
	}

	return preChain, computer, postChain, nil
}

// withSampleRate injects the decoded rate into the computer config.
// Bank-based computers take the rate through their bank config, the
// rest take it at the top level.
func withSampleRate(cfg map[string]any, sampleRate float64) map[string]any {
	out := make(map[string]any, len(cfg)+1)
	for k, v := range cfg {
		out[k] = v
	}
	if name, ok := out["bank"].(string); ok {
		out["bank"] = map[string]any{"name": name, "sample_rate": sampleRate}
		return out
	}
	if bank, ok := out["bank"].(map[string]any); ok {
		if _, has := bank["sample_rate"]; !has {
			nested := make(map[string]any, len(bank)+1)
			for k, v := range bank {
				nested[k] = v
			}
			nested["sample_rate"] = sampleRate
			out["bank"] = nested
		}
		return out
	}
	out["sample_rate"] = sampleRate
	return out
}

// checkStreamable rejects a streaming run whose post chain holds a
// batch-only stage
func checkStreamable(chain *post.Chain) error {
	if !chain.Streamable() {
		return common.Statef("post chain contains a batch-only stage, streaming is not applicable")
	}
	return nil
}

func computeStreaming(computer feature.Computer, signal []float64, chunkSize int) ([][]float64, error) {
	computer.Start()
	var feats [][]float64
	for start := 0; start < len(signal); start += chunkSize {
		end := start + chunkSize
		if end > len(signal) {
			end = len(signal)
		}
		frames, err := computer.ConsumeChunk(signal[start:end])
		if err != nil {
			return nil, err
		}
		feats = append(feats, frames...)
	}
	frames, err := computer.Finalize()
	if err != nil {
		return nil, err
	}
	return append(feats, frames...), nil
}

func writeFeatures(feats [][]float64, path, format string) error {
	var out io.Writer = os.Stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		if feats == nil {
			feats = [][]float64{}
		}
		return encoder.Encode(feats)
	case "csv":
		writer := csv.NewWriter(out)
		record := make([]string, 0, 64)
		for _, frame := range feats {
			record = record[:0]
			for _, v := range frame {
				record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		writer.Flush()
		return writer.Error()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
