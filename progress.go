package video

import (
	"math"
	"sync/atomic"
)

// ProgressSink receives the fraction of bytes consumed, in [0,1].
type ProgressSink interface {
	Set(fraction float64)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(fraction float64)

// Set implements ProgressSink.
func (f ProgressFunc) Set(fraction float64) { f(fraction) }

// Progress is a ProgressSink that can be read at any time while an import
// is running, e.g. by a renderer on another goroutine. The zero value reads 0.
type Progress struct {
	bits atomic.Uint64
}

// Set implements ProgressSink.
func (p *Progress) Set(fraction float64) {
	p.bits.Store(math.Float64bits(fraction))
}

// Value returns the last reported fraction.
func (p *Progress) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Percent returns the last reported fraction as a whole percentage.
func (p *Progress) Percent() int {
	return int(math.Floor(p.Value() * 100))
}

// fraction returns done/total clamped to [0,1]. An empty or unknown total
// reports complete once anything has been consumed.
func fraction(done, total int64) float64 {
	if total <= 0 {
		if done > 0 {
			return 1
		}
		return 0
	}
	f := float64(done) / float64(total)
	if f > 1 {
		return 1
	}
	return f
}
