package timeline

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidTiming = errors.New("invalid movie timing")

// Timing describes the time range and cadence of a movie.
type Timing struct {
	Start               time.Time
	End                 time.Time
	SecondsPerFrame     int
	TrackFadingSeconds  int
	TrackCuttingSeconds int
	VideoFramerate      float64
}

// Frame is one rendered instant, 1-indexed.
type Frame struct {
	Index int
	Time  time.Time
}

// Validate returns an error wrapping ErrInvalidTiming when t cannot produce
// frames.
func (t Timing) Validate() error {
	switch {
	case t.SecondsPerFrame <= 0:
		return errors.Join(ErrInvalidTiming, errors.New("seconds per frame must be positive"))
	case t.TrackFadingSeconds < 0 || t.TrackCuttingSeconds < 0:
		return errors.Join(ErrInvalidTiming, errors.New("track windows must not be negative"))
	case !t.End.After(t.Start):
		return errors.Join(ErrInvalidTiming, errors.New("end must be after start"))
	}
	return nil
}

func (t Timing) frameStep() time.Duration {
	return time.Duration(t.SecondsPerFrame) * time.Second
}

// FrameCount is the nominal number of frames, (End-Start)/SecondsPerFrame
// rounded. Frames may yield one more when the range is not a whole multiple
// of the cadence, because the last frame is clamped to End.
func (t Timing) FrameCount() int {
	if t.SecondsPerFrame <= 0 {
		return 0
	}
	return int(math.Round(t.End.Sub(t.Start).Seconds() / float64(t.SecondsPerFrame)))
}

// Frames lists frame instants Start+k*step for k = 1, 2, ..., clamped to End.
// The list stops at the first instant that reaches End.
func (t Timing) Frames() []Frame {
	if t.SecondsPerFrame <= 0 || !t.End.After(t.Start) {
		return nil
	}
	step := t.frameStep()
	frames := make([]Frame, 0, t.FrameCount()+1)
	for k := 1; ; k++ {
		at := t.Start.Add(time.Duration(k) * step)
		if at.After(t.End) {
			at = t.End
		}
		frames = append(frames, Frame{Index: k, Time: at})
		if !at.Before(t.End) {
			break
		}
	}
	return frames
}

// TailCutoff is the length of the full trailing window.
func (t Timing) TailCutoff() time.Duration {
	return time.Duration(t.TrackCuttingSeconds) * time.Second
}

// FadeCutoff is the length of the solid trailing window.
func (t Timing) FadeCutoff() time.Duration {
	return time.Duration(t.TrackFadingSeconds) * time.Second
}
