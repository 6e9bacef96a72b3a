package source

import (
	"context"
	"errors"
	"time"
)

// ErrStop may be returned by a record callback to end iteration early
// without an error.
var ErrStop = errors.New("stop iteration")

// Record is one position fix of an entity.
type Record struct {
	EntityID int64
	Time     time.Time
	Lat      float64
	Lon      float64
}

// Source streams the records with start <= Time < end to fn.
type Source interface {
	Records(ctx context.Context, start, end time.Time, fn func(Record) error) error
}

// Func adapts a function to Source.
type Func func(ctx context.Context, start, end time.Time, fn func(Record) error) error

func (f Func) Records(ctx context.Context, start, end time.Time, fn func(Record) error) error {
	return f(ctx, start, end, fn)
}

// Chunk is one query window of a chunked load.
type Chunk struct {
	Start time.Time
	End   time.Time
}

// Chunks splits [start, end) into consecutive windows of at most step.
func Chunks(start, end time.Time, step time.Duration) []Chunk {
	if step <= 0 || !end.After(start) {
		return nil
	}
	var out []Chunk
	for s := start; s.Before(end); s = s.Add(step) {
		e := s.Add(step)
		if e.After(end) {
			e = end
		}
		out = append(out, Chunk{Start: s, End: e})
	}
	return out
}
