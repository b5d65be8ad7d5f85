package nineslice

import (
	"errors"
	"image/color"
	"log/slog"
	"sync/atomic"

	"gioui.org/f32"
	"git.sr.ht/~gioverse/nineslice/state"
	"git.sr.ht/~gioverse/nineslice/texture"
)

// Store is the keyed state the resolver keeps entries in. *state.Store
// implements it.
type Store interface {
	Get(id state.ID, kind state.Kind) (interface{}, bool)
	Put(id state.ID, kind state.Kind, v interface{})
}

// DefaultTolerance is less than one pixel at densities below 8 pixels per dp.
const DefaultTolerance float32 = 1.0 / 8

// Stats counts resolver outcomes.
type Stats struct {
	// Hits are resolves answered from the store unchanged.
	Hits int64
	// Misses are resolves that found a stale entry.
	Misses int64
	// Builds counts geometry computations, cold starts included.
	Builds int64
}

// Resolver fetches nine-slice entries from a Store, rebuilding them when the
// available layout size changes.
//
// Entries always live in the ephemeral kind of the store.
type Resolver struct {
	Store Store
	// Tolerance is how far, in dp, a target may move before the entry is
	// rebuilt. Defaults to DefaultTolerance.
	Tolerance float32
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	hits, misses, builds atomic.Int64
}

// Resolve is a convenience for resolving with a throwaway Resolver.
func Resolve(s Store, id state.ID, tex *texture.Texture, target Rect, avail f32.Point, tint color.NRGBA) (Entry, error) {
	r := Resolver{Store: s}
	return r.Resolve(id, tex, target, avail, tint)
}

// Resolve returns the entry for id, the per-frame entry point.
//
// A stored entry is returned unchanged when it was built for the same
// available size, texture and tint, its target is within Tolerance of
// target, and it has a shape attached. Otherwise the entry is rebuilt for
// target, given a shape, and written back. A cold start attaches the shape
// too, so the frame after it is a hit.
//
// The available size catches window and parent resizes. A frame that fills
// the space it is offered keeps the same available size while its own size
// changes, so the target is compared as well, loosely enough that floating
// point jitter never rebuilds.
func (r *Resolver) Resolve(id state.ID, tex *texture.Texture, target Rect, avail f32.Point, tint color.NRGBA) (Entry, error) {
	if tint == (color.NRGBA{}) {
		tint = texture.White
	}
	v, ok := r.Store.Get(id, state.Ephemeral)
	if ok {
		if cached, ok := v.(Entry); ok && r.fresh(cached, tex, target, avail, tint) {
			r.hits.Add(1)
			r.logger().Debug("nine-slice cache hit", "id", id)
			return cached, nil
		}
		r.misses.Add(1)
		r.logger().Debug("nine-slice cache miss", "id", id, "available", avail)
	}
	e, err := Build(tex, target, avail, tint)
	if err != nil {
		return Entry{}, err
	}
	r.builds.Add(1)
	var degenerate *DegenerateGeometryError
	if err := CheckGeometry(tex.Size, target, e.Border); errors.As(err, &degenerate) {
		r.logger().Warn("nine-slice geometry degenerate", "id", id, "subject", degenerate.Subject, "err", err)
	}
	e.Shape = e.Compose()
	r.Store.Put(id, state.Ephemeral, e)
	return e, nil
}

// fresh reports whether e can be reused.
func (r *Resolver) fresh(e Entry, tex *texture.Texture, target Rect, avail f32.Point, tint color.NRGBA) bool {
	tolerance := r.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return e.Shape != nil &&
		e.Available == avail &&
		e.Target.Eq(target, tolerance) &&
		e.Texture == tex &&
		e.Tint == tint
}

// Stats reports the resolver's counters.
func (r *Resolver) Stats() Stats {
	return Stats{
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
		Builds: r.builds.Load(),
	}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
