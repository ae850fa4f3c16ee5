package feature

import (
	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// engine is the framing state machine shared by all computers. It owns the
// carryover buffer for one stream and calls frameFn once per complete frame,
// in temporal order, on both the batch and streaming paths. frameFn receives
// a slice that is only valid for the duration of the call.
type engine struct {
	frameLength int
	frameShift  int
	frameFn     func(frame []float64) []float64

	started   bool
	finalized bool
	buf       []float64
	skip      int   // samples to discard before the next frame when shift > length
	consumed  int64 // total samples consumed since Start
}

func (e *engine) computeFull(signal []float64) ([][]float64, error) {
	if e.started {
		return nil, common.Statef("batch computation invoked while a stream is active; call Finalize first")
	}

	numFrames := NumFrames(len(signal), e.frameLength, e.frameShift)
	feats := make([][]float64, numFrames)
	for i := range numFrames {
		start := i * e.frameShift
		feats[i] = e.frameFn(signal[start : start+e.frameLength])
	}
	return feats, nil
}

func (e *engine) start() {
	e.started = true
	e.finalized = false
	e.buf = e.buf[:0]
	e.skip = 0
	e.consumed = 0
}

func (e *engine) consumeChunk(chunk []float64) ([][]float64, error) {
	if !e.started {
		return nil, common.Statef("ConsumeChunk called on a computer that was never started")
	}

	e.buf = append(e.buf, chunk...)
	e.consumed += int64(len(chunk))

	var feats [][]float64
	for {
		if e.skip > 0 {
			drop := min(e.skip, len(e.buf))
			e.buf = e.buf[drop:]
			e.skip -= drop
		}
		if e.skip > 0 || len(e.buf) < e.frameLength {
			break
		}

		feats = append(feats, e.frameFn(e.buf[:e.frameLength]))

		if e.frameShift >= e.frameLength {
			e.buf = e.buf[e.frameLength:]
			e.skip = e.frameShift - e.frameLength
		} else {
			e.buf = e.buf[e.frameShift:]
		}
	}

	// re-anchor the retained overlap so the backing array cannot grow without
	// bound; at most frameLength-1 samples remain
	if len(e.buf) > 0 {
		retained := make([]float64, len(e.buf))
		copy(retained, e.buf)
		e.buf = retained
	} else {
		e.buf = nil
	}

	return feats, nil
}

func (e *engine) finalize() ([][]float64, error) {
	if e.finalized {
		return nil, nil
	}
	if !e.started {
		return nil, common.Statef("Finalize called on a computer that was never started")
	}

	// trailing fragment shorter than a frame is discarded, never padded
	e.started = false
	e.finalized = true
	e.buf = nil
	e.skip = 0
	return nil, nil
}
