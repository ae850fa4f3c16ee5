package registry

import (
	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/algorithms/scales"
	"github.com/RyanBlaney/sonido-features/algorithms/windowing"
	"github.com/RyanBlaney/sonido-features/feature"
	"github.com/RyanBlaney/sonido-features/feature/post"
	"github.com/RyanBlaney/sonido-features/feature/pre"
	"github.com/RyanBlaney/sonido-features/filterbank"
)

// NewWithDefaults creates a registry with every built-in component
// registered, under its canonical name and its common aliases.
func NewWithDefaults() *Registry {
	r := New()

	mustRegister := func(kind Kind, ctor Constructor, names ...string) {
		for _, name := range names {
			if err := r.Register(kind, name, ctor); err != nil {
				// built-in names are disjoint; a collision is a programming error
				panic(err)
			}
		}
	}

	mustRegister(KindScale, newMelScale, "mel")
	mustRegister(KindScale, newBarkScale, "bark")
	mustRegister(KindScale, newLinearScale, "linear")
	mustRegister(KindScale, newOctaveScale, "octave")

	mustRegister(KindBank, newTriangularBank, "tri", "triangular")
	mustRegister(KindBank, newGaborBank, "gabor")

	mustRegister(KindComputer, newSTFTComputer, "stft")
	mustRegister(KindComputer, newSpectrogramComputer, "spectrogram")

	mustRegister(KindPre, newPreEmphasis, "preemph", "preemphasis")
	mustRegister(KindPre, newDither, "dither")

	mustRegister(KindPost, newDeltas, "delta", "deltas")
	mustRegister(KindPost, newStandardize, "standardize", "cmvn")

	return r
}

// ConstructScale resolves a scale configuration
func (r *Registry) ConstructScale(config map[string]any) (scales.Scale, error) {
	component, err := r.Construct(KindScale, config)
	if err != nil {
		return nil, err
	}
	scale, ok := component.(scales.Scale)
	if !ok {
		return nil, common.Configf("registry: %q did not construct a scale", config["name"])
	}
	return scale, nil
}

// ConstructBank resolves a filter bank configuration
func (r *Registry) ConstructBank(config map[string]any) (filterbank.Bank, error) {
	component, err := r.Construct(KindBank, config)
	if err != nil {
		return nil, err
	}
	bank, ok := component.(filterbank.Bank)
	if !ok {
		return nil, common.Configf("registry: %q did not construct a filter bank", config["name"])
	}
	return bank, nil
}

// ConstructComputer resolves a frame computer configuration
func (r *Registry) ConstructComputer(config map[string]any) (feature.Computer, error) {
	component, err := r.Construct(KindComputer, config)
	if err != nil {
		return nil, err
	}
	computer, ok := component.(feature.Computer)
	if !ok {
		return nil, common.Configf("registry: %q did not construct a frame computer", config["name"])
	}
	return computer, nil
}

// ConstructPre resolves a sample-domain transform configuration
func (r *Registry) ConstructPre(config map[string]any) (pre.Transform, error) {
	component, err := r.Construct(KindPre, config)
	if err != nil {
		return nil, err
	}
	transform, ok := component.(pre.Transform)
	if !ok {
		return nil, common.Configf("registry: %q did not construct a pre transform", config["name"])
	}
	return transform, nil
}

// ConstructPost resolves a feature-matrix transform configuration
func (r *Registry) ConstructPost(config map[string]any) (post.Transform, error) {
	component, err := r.Construct(KindPost, config)
	if err != nil {
		return nil, err
	}
	transform, ok := component.(post.Transform)
	if !ok {
		return nil, common.Configf("registry: %q did not construct a post transform", config["name"])
	}
	return transform, nil
}

func newMelScale(_ *Registry, _ *Params) (any, error) {
	return scales.NewMel(), nil
}

func newBarkScale(_ *Registry, _ *Params) (any, error) {
	return scales.NewBark(), nil
}

func newLinearScale(_ *Registry, _ *Params) (any, error) {
	return scales.NewLinear(), nil
}

func newOctaveScale(_ *Registry, p *Params) (any, error) {
	refHz, err := p.Float("ref_hz", 1000)
	if err != nil {
		return nil, err
	}
	return scales.NewOctave(refHz), nil
}

func newTriangularBank(r *Registry, p *Params) (any, error) {
	scaleCfg, err := p.Component("scale")
	if err != nil {
		return nil, err
	}
	if scaleCfg == nil {
		scaleCfg = map[string]any{"name": "mel"}
	}
	scale, err := r.ConstructScale(scaleCfg)
	if err != nil {
		return nil, err
	}

	params := filterbank.DefaultTriangularParams()
	if params.NumFilters, err = p.Int("num_filters", params.NumFilters); err != nil {
		return nil, err
	}
	if params.LowHz, err = p.Float("low_hz", params.LowHz); err != nil {
		return nil, err
	}
	if params.HighHz, err = p.Float("high_hz", params.HighHz); err != nil {
		return nil, err
	}
	if params.SampleRate, err = p.Float("sample_rate", params.SampleRate); err != nil {
		return nil, err
	}
	if params.Normalize, err = p.Bool("normalize", params.Normalize); err != nil {
		return nil, err
	}

	return filterbank.NewTriangular(scale, params)
}

func newGaborBank(r *Registry, p *Params) (any, error) {
	scaleCfg, err := p.Component("scale")
	if err != nil {
		return nil, err
	}
	if scaleCfg == nil {
		scaleCfg = map[string]any{"name": "mel"}
	}
	scale, err := r.ConstructScale(scaleCfg)
	if err != nil {
		return nil, err
	}

	params := filterbank.DefaultGaborParams()
	if params.NumFilters, err = p.Int("num_filters", params.NumFilters); err != nil {
		return nil, err
	}
	if params.LowHz, err = p.Float("low_hz", params.LowHz); err != nil {
		return nil, err
	}
	if params.HighHz, err = p.Float("high_hz", params.HighHz); err != nil {
		return nil, err
	}
	if params.SampleRate, err = p.Float("sample_rate", params.SampleRate); err != nil {
		return nil, err
	}
	if params.BoundaryMode, err = p.String("boundary_mode", params.BoundaryMode); err != nil {
		return nil, err
	}

	return filterbank.NewGabor(scale, params)
}

func stftParams(p *Params) (feature.STFTParams, error) {
	params := feature.DefaultSTFTParams()

	var err error
	if params.FrameLength, err = p.Int("frame_length", params.FrameLength); err != nil {
		return params, err
	}
	if params.FrameShift, err = p.Int("frame_shift", params.FrameShift); err != nil {
		return params, err
	}
	if params.TransformSize, err = p.Int("transform_size", 0); err != nil {
		return params, err
	}
	if params.IncludeEnergy, err = p.Bool("include_energy", false); err != nil {
		return params, err
	}
	if params.UsePower, err = p.Bool("use_power", params.UsePower); err != nil {
		return params, err
	}
	if params.UseLog, err = p.Bool("use_log", params.UseLog); err != nil {
		return params, err
	}

	windowCfg, err := p.Component("window")
	if err != nil {
		return params, err
	}
	if windowCfg != nil {
		params.Window, err = windowConfig(p.component, params.FrameLength, windowCfg)
		if err != nil {
			return params, err
		}
	}
	return params, nil
}

// windowConfig reads a nested window mapping with the same unknown-key
// policy as top-level component configurations
func windowConfig(component string, size int, cfg map[string]any) (*windowing.Config, error) {
	wp := newParams(component+" window", cfg)

	name, err := wp.String("name", string(windowing.WindowHann))
	if err != nil {
		return nil, err
	}

	wc := windowing.DefaultConfig(size)
	wc.Type = windowing.WindowType(name)
	if wc.Symmetric, err = wp.Bool("symmetric", wc.Symmetric); err != nil {
		return nil, err
	}
	if wc.Order, err = wp.Int("order", wc.Order); err != nil {
		return nil, err
	}
	if wc.Peak, err = wp.Float("peak", wc.Peak); err != nil {
		return nil, err
	}

	if leftover := wp.unconsumed(); len(leftover) > 0 {
		return nil, common.Configf("%s: window does not recognize parameter %q", component, leftover[0])
	}
	return wc, nil
}

func newSTFTComputer(r *Registry, p *Params) (any, error) {
	bankCfg, err := p.Component("bank")
	if err != nil {
		return nil, err
	}
	if bankCfg == nil {
		return nil, common.Configf("%s: missing required parameter \"bank\"", p.component)
	}
	bank, err := r.ConstructBank(bankCfg)
	if err != nil {
		return nil, err
	}

	// the bank carries the rate; an explicit one must agree with it
	if p.Has("sample_rate") {
		sampleRate, err := p.Float("sample_rate", 0)
		if err != nil {
			return nil, err
		}
		if sampleRate != bank.SampleRate() {
			return nil, common.Configf("%s: sample_rate %g conflicts with bank sample rate %g",
				p.component, sampleRate, bank.SampleRate())
		}
	}

	params, err := stftParams(p)
	if err != nil {
		return nil, err
	}
	return feature.NewSTFT(bank, params)
}

func newSpectrogramComputer(_ *Registry, p *Params) (any, error) {
	if !p.Has("sample_rate") {
		return nil, common.Configf("%s: missing required parameter \"sample_rate\"", p.component)
	}
	sampleRate, err := p.Float("sample_rate", 0)
	if err != nil {
		return nil, err
	}

	params, err := stftParams(p)
	if err != nil {
		return nil, err
	}
	return feature.NewSpectrogram(sampleRate, params)
}

func newPreEmphasis(_ *Registry, p *Params) (any, error) {
	coefficient, err := p.Float("coefficient", 0.97)
	if err != nil {
		return nil, err
	}
	return pre.NewPreEmphasis(coefficient), nil
}

func newDither(_ *Registry, p *Params) (any, error) {
	amplitude, err := p.Float("amplitude", 1e-4)
	if err != nil {
		return nil, err
	}
	seed, err := p.Int("seed", 0)
	if err != nil {
		return nil, err
	}
	return pre.NewDither(amplitude, int64(seed)), nil
}

func newDeltas(_ *Registry, p *Params) (any, error) {
	order, err := p.Int("order", 2)
	if err != nil {
		return nil, err
	}
	window, err := p.Int("window", 2)
	if err != nil {
		return nil, err
	}
	return post.NewDeltas(order, window)
}

func newStandardize(_ *Registry, p *Params) (any, error) {
	scaleVariance, err := p.Bool("scale_variance", true)
	if err != nil {
		return nil, err
	}
	return post.NewStandardize(scaleVariance), nil
}
