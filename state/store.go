// Package state provides keyed per-widget state for immediate-mode layout.
//
// Gio widgets keep their state in application owned values. Decorations that
// are constructed fresh every frame have nowhere to keep derived data, so
// they address a Store by a stable ID instead and treat every frame as
// "read the current value, decide whether it is fresh, write it back".
package state

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"

	"gioui.org/layout"
	"gopkg.in/yaml.v3"
)

// ID identifies a widget's state. IDs are derived from the position of the
// widget in the UI plus an optional caller supplied salt.
type ID uint64

// NewID derives an ID by hashing the given parts in order.
func NewID(parts ...string) ID {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return ID(h.Sum64())
}

// With derives a child ID from id and salt.
func (id ID) With(salt string) ID {
	return NewID(strconv.FormatUint(uint64(id), 16), salt)
}

func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Kind selects the lifetime of a stored value.
type Kind uint8

const (
	// Ephemeral values live for the session and are evicted once their ID
	// goes a whole frame without being accessed.
	Ephemeral Kind = iota
	// Persistent values are never evicted and can be exported with
	// MarshalPersistent.
	Persistent
)

func (k Kind) String() string {
	switch k {
	case Ephemeral:
		return "ephemeral"
	case Persistent:
		return "persistent"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type key struct {
	id   ID
	kind Kind
}

// slot holds one value.
type slot struct {
	// value is the most recently stored value.
	value interface{}
	// raw holds a restored persistent value that has not been decoded into
	// its concrete type yet. See Load.
	raw *yaml.Node
	// frame in which the slot was last accessed.
	frame int64
}

// Store maps (ID, Kind) pairs to values. There is at most one value per pair.
// The zero value is ready to use and a Store is safe for concurrent use.
type Store struct {
	// active frame being laid out.
	// Access must be synchronized with atomics.
	active int64
	mu     sync.Mutex
	slots  map[key]*slot
}

func (s *Store) lookup(k key) (*slot, bool) {
	sl, ok := s.slots[k]
	if ok {
		sl.frame = atomic.LoadInt64(&s.active)
	}
	return sl, ok
}

// Get returns the value stored for id, if any. A restored persistent value
// that has not been decoded yet is returned as a *yaml.Node; use Load to
// obtain it as a concrete type.
func (s *Store) Get(id ID, kind Kind) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.lookup(key{id, kind})
	if !ok {
		return nil, false
	}
	if sl.raw != nil {
		return sl.raw, true
	}
	return sl.value, true
}

// Put stores v for id, replacing any previous value.
func (s *Store) Put(id ID, kind Kind, v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		s.slots = make(map[key]*slot)
	}
	s.slots[key{id, kind}] = &slot{
		value: v,
		frame: atomic.LoadInt64(&s.active),
	}
}

// Remove deletes the value stored for id.
func (s *Store) Remove(id ID, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key{id, kind})
}

// Len reports the number of stored values.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Frame wraps a widget and tracks frames. Ephemeral values that were not
// accessed while w was laid out are evicted afterwards, since the widgets
// owning them are no longer part of the UI.
//
// Typically the entire UI is wrapped so that each frame is counted.
func (s *Store) Frame(gtx layout.Context, w layout.Widget) layout.Dimensions {
	frame := atomic.AddInt64(&s.active, 1)
	dims := w(gtx)
	s.purge(frame)
	return dims
}

// purge evicts ephemeral values last accessed before frame.
func (s *Store) purge(frame int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, sl := range s.slots {
		if k.kind == Ephemeral && sl.frame < frame {
			delete(s.slots, k)
		}
	}
}

// Load returns the value stored for id as a T. Restored persistent values
// are decoded into T on first access.
func Load[T any](s *Store, id ID, kind Kind) (T, bool) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.lookup(key{id, kind})
	if !ok {
		return zero, false
	}
	if sl.raw != nil {
		var v T
		if err := sl.raw.Decode(&v); err != nil {
			return zero, false
		}
		sl.value, sl.raw = v, nil
	}
	v, ok := sl.value.(T)
	return v, ok
}

// MarshalPersistent encodes all persistent values as YAML keyed by ID.
func (s *Store) MarshalPersistent() ([]byte, error) {
	s.mu.Lock()
	out := make(map[string]interface{})
	for k, sl := range s.slots {
		if k.kind != Persistent {
			continue
		}
		if sl.raw != nil {
			out[k.id.String()] = sl.raw
		} else {
			out[k.id.String()] = sl.value
		}
	}
	s.mu.Unlock()
	b, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding persistent state: %w", err)
	}
	return b, nil
}

// UnmarshalPersistent restores persistent values encoded by
// MarshalPersistent. Existing persistent values with the same ID are
// replaced.
func (s *Store) UnmarshalPersistent(b []byte) error {
	var in map[string]yaml.Node
	if err := yaml.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("decoding persistent state: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		s.slots = make(map[key]*slot)
	}
	frame := atomic.LoadInt64(&s.active)
	for hex, node := range in {
		id, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return fmt.Errorf("decoding persistent state: id %q: %w", hex, err)
		}
		node := node
		s.slots[key{ID(id), Persistent}] = &slot{raw: &node, frame: frame}
	}
	return nil
}
