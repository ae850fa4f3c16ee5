package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/algorithms/scales"
)

func TestConstructScales(t *testing.T) {
	r := NewWithDefaults()

	for _, name := range []string{"mel", "bark", "linear"} {
		scale, err := r.ConstructScale(map[string]any{"name": name})
		require.NoError(t, err)
		assert.Equal(t, name, scale.Name())
	}

	scale, err := r.ConstructScale(map[string]any{"name": "octave", "ref_hz": 440.0})
	require.NoError(t, err)
	s, err := scale.HzToScale(880)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-12)
}

func TestConstructUnknownName(t *testing.T) {
	r := NewWithDefaults()

	_, err := r.Construct(KindScale, map[string]any{"name": "not_a_real_scale"})
	require.Error(t, err)
	var cfgErr *common.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "not_a_real_scale")
}

func TestConstructMissingName(t *testing.T) {
	r := NewWithDefaults()

	_, err := r.Construct(KindBank, map[string]any{"num_filters": 10})
	require.Error(t, err)
	var cfgErr *common.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestConstructRejectsUnknownParameter(t *testing.T) {
	r := NewWithDefaults()

	_, err := r.Construct(KindScale, map[string]any{"name": "mel", "warp": 1.2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warp")
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	ctor := func(_ *Registry, _ *Params) (any, error) { return scales.NewMel(), nil }

	require.NoError(t, r.Register(KindScale, "mel", ctor))
	err := r.Register(KindScale, "mel", ctor)
	require.Error(t, err)
	var cfgErr *common.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRegisterCustomComponent(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(KindScale, "semitone", func(_ *Registry, p *Params) (any, error) {
		ref, err := p.Float("ref_hz", 440)
		if err != nil {
			return nil, err
		}
		return scales.NewOctave(ref), nil
	}))

	assert.Equal(t, []string{"semitone"}, r.Names(KindScale))

	scale, err := r.ConstructScale(map[string]any{"name": "semitone"})
	require.NoError(t, err)
	s, err := scale.HzToScale(440)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, s, 1e-12)

	// registries are independent
	_, err = NewWithDefaults().ConstructScale(map[string]any{"name": "semitone"})
	require.Error(t, err)
}

func TestConstructBankWithNestedScale(t *testing.T) {
	r := NewWithDefaults()

	bank, err := r.ConstructBank(map[string]any{
		"name":        "tri",
		"num_filters": 20,
		"sample_rate": 8000.0,
		"scale":       map[string]any{"name": "bark"},
	})
	require.NoError(t, err)
	assert.Equal(t, 20, bank.NumFilters())
	assert.InDelta(t, 8000.0, bank.SampleRate(), 0)
}

func TestConstructGaborBank(t *testing.T) {
	r := NewWithDefaults()

	bank, err := r.ConstructBank(map[string]any{
		"name":          "gabor",
		"num_filters":   16,
		"low_hz":        100.0,
		"sample_rate":   16000.0,
		"boundary_mode": "edges",
		"scale":         "mel",
	})
	require.NoError(t, err)
	assert.Equal(t, 16, bank.NumFilters())

	_, err = r.ConstructBank(map[string]any{"name": "gabor", "boundary_mode": "fold"})
	require.Error(t, err)
	var cfgErr *common.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestConstructBankScaleShorthand(t *testing.T) {
	r := NewWithDefaults()

	// a bare string stands in for {"name": ...}
	bank, err := r.ConstructBank(map[string]any{"name": "triangular", "scale": "linear"})
	require.NoError(t, err)
	assert.Equal(t, 40, bank.NumFilters())
}

func TestConstructBankDefaultsToMel(t *testing.T) {
	r := NewWithDefaults()

	withDefault, err := r.ConstructBank(map[string]any{"name": "tri"})
	require.NoError(t, err)
	explicit, err := r.ConstructBank(map[string]any{"name": "tri", "scale": "mel"})
	require.NoError(t, err)
	assert.Equal(t, explicit.CentersHz(), withDefault.CentersHz())
}

func TestConstructBankNestedError(t *testing.T) {
	r := NewWithDefaults()

	_, err := r.ConstructBank(map[string]any{"name": "tri", "scale": "no_such_scale"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_scale")
}

func TestConstructSTFTComputer(t *testing.T) {
	r := NewWithDefaults()

	computer, err := r.ConstructComputer(map[string]any{
		"name":           "stft",
		"frame_length":   400,
		"frame_shift":    160,
		"include_energy": true,
		"window":         map[string]any{"name": "hamming"},
		"bank": map[string]any{
			"name":        "tri",
			"num_filters": 13,
			"scale":       "mel",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 400, computer.FrameLength())
	assert.Equal(t, 160, computer.FrameShift())
	assert.Equal(t, 14, computer.NumCoeffs())

	signal := make([]float64, 800)
	for i := range signal {
		signal[i] = 0.25
	}
	frames, err := computer.ComputeFull(signal)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	require.Len(t, frames[0], 14)
}

func TestConstructSTFTRequiresBank(t *testing.T) {
	r := NewWithDefaults()

	_, err := r.ConstructComputer(map[string]any{"name": "stft"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bank")
}

func TestConstructSpectrogram(t *testing.T) {
	r := NewWithDefaults()

	computer, err := r.ConstructComputer(map[string]any{
		"name":        "spectrogram",
		"sample_rate": 16000.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 257, computer.NumCoeffs())

	_, err = r.ConstructComputer(map[string]any{"name": "spectrogram"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample_rate")
}

func TestConstructTransforms(t *testing.T) {
	r := NewWithDefaults()

	preTransform, err := r.ConstructPre(map[string]any{"name": "preemph", "coefficient": 0.95})
	require.NoError(t, err)
	assert.Equal(t, "preemphasis", preTransform.Name())

	dither, err := r.ConstructPre(map[string]any{"name": "dither", "amplitude": 1e-5, "seed": 7})
	require.NoError(t, err)
	assert.Equal(t, "dither", dither.Name())

	deltas, err := r.ConstructPost(map[string]any{"name": "deltas", "order": 1})
	require.NoError(t, err)
	width, err := deltas.OutputWidth(13)
	require.NoError(t, err)
	assert.Equal(t, 26, width)

	cmvn, err := r.ConstructPost(map[string]any{"name": "cmvn", "scale_variance": false})
	require.NoError(t, err)
	assert.False(t, cmvn.Streamable())
}

func TestConstructWindowRejectsUnknownKey(t *testing.T) {
	r := NewWithDefaults()

	_, err := r.ConstructComputer(map[string]any{
		"name":        "spectrogram",
		"sample_rate": 16000.0,
		"window":      map[string]any{"name": "hann", "beta": 3.0},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beta")
}

func TestConstructIntegerCoercion(t *testing.T) {
	r := NewWithDefaults()

	// whole-valued floats are accepted for integer parameters, as
	// produced by generic JSON and YAML decoding
	bank, err := r.ConstructBank(map[string]any{"name": "tri", "num_filters": 24.0})
	require.NoError(t, err)
	assert.Equal(t, 24, bank.NumFilters())

	_, err = r.ConstructBank(map[string]any{"name": "tri", "num_filters": 24.5})
	require.Error(t, err)
}
