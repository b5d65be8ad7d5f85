package state

import (
	"image"
	"sync"
	"testing"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() layout.Context {
	return layout.Context{
		Ops:         new(op.Ops),
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Constraints: layout.Exact(image.Pt(100, 100)),
	}
}

func TestID(t *testing.T) {
	assert.Equal(t, NewID("a", "b"), NewID("a", "b"))
	assert.NotEqual(t, NewID("a", "b"), NewID("ab"))
	assert.NotEqual(t, NewID("a", "b"), NewID("b", "a"))

	root := NewID("window")
	assert.Equal(t, root.With("x"), root.With("x"))
	assert.NotEqual(t, root.With("x"), root.With("y"))
	assert.NotEqual(t, root, root.With(""))
	assert.Len(t, root.String(), 16)
}

func TestStoreGetPut(t *testing.T) {
	var s Store
	id := NewID("panel")

	_, ok := s.Get(id, Ephemeral)
	assert.False(t, ok, "empty store")

	s.Put(id, Ephemeral, 1)
	s.Put(id, Persistent, "persisted")
	v, ok := s.Get(id, Ephemeral)
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = s.Get(id, Persistent)
	require.True(t, ok)
	assert.Equal(t, "persisted", v, "kinds are stored separately")

	s.Put(id, Ephemeral, 2)
	v, _ = s.Get(id, Ephemeral)
	assert.Equal(t, 2, v, "put replaces")
	assert.Equal(t, 2, s.Len())

	s.Remove(id, Ephemeral)
	_, ok = s.Get(id, Ephemeral)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestLoad(t *testing.T) {
	var s Store
	id := NewID("panel")
	s.Put(id, Ephemeral, 42)

	n, ok := Load[int](&s, id, Ephemeral)
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = Load[string](&s, id, Ephemeral)
	assert.False(t, ok, "wrong type")
	_, ok = Load[int](&s, NewID("other"), Ephemeral)
	assert.False(t, ok, "absent")
}

func TestFrameEvictsUntouched(t *testing.T) {
	var (
		s       Store
		gtx     = newContext()
		visible = NewID("visible")
		hidden  = NewID("hidden")
		pinned  = NewID("pinned")
	)
	s.Frame(gtx, func(gtx layout.Context) layout.Dimensions {
		s.Put(visible, Ephemeral, "v")
		s.Put(hidden, Ephemeral, "h")
		s.Put(pinned, Persistent, "p")
		return layout.Dimensions{Size: gtx.Constraints.Max}
	})
	require.Equal(t, 3, s.Len())

	dims := s.Frame(gtx, func(gtx layout.Context) layout.Dimensions {
		_, ok := s.Get(visible, Ephemeral)
		assert.True(t, ok)
		return layout.Dimensions{Size: image.Pt(7, 9)}
	})
	assert.Equal(t, image.Pt(7, 9), dims.Size)

	_, ok := s.Get(visible, Ephemeral)
	assert.True(t, ok, "accessed values survive")
	_, ok = s.Get(hidden, Ephemeral)
	assert.False(t, ok, "untouched ephemeral values are evicted")
	_, ok = s.Get(pinned, Persistent)
	assert.True(t, ok, "persistent values are never evicted")
}

type window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

func TestPersistentRoundTrip(t *testing.T) {
	var (
		src Store
		id  = NewID("window").With("main")
	)
	src.Put(id, Persistent, window{Width: 800, Height: 600, Title: "frames"})
	src.Put(NewID("scratch"), Ephemeral, "not exported")

	b, err := src.MarshalPersistent()
	require.NoError(t, err)

	var dst Store
	require.NoError(t, dst.UnmarshalPersistent(b))
	assert.Equal(t, 1, dst.Len())

	w, ok := Load[window](&dst, id, Persistent)
	require.True(t, ok)
	assert.Equal(t, window{Width: 800, Height: 600, Title: "frames"}, w)

	v, ok := dst.Get(id, Persistent)
	require.True(t, ok)
	assert.IsType(t, window{}, v, "decoded value replaces the raw node")
}

func TestUnmarshalPersistentBadID(t *testing.T) {
	var s Store
	assert.Error(t, s.UnmarshalPersistent([]byte("not-hex: 1\n")))
	assert.Error(t, s.UnmarshalPersistent([]byte("- a list\n")))
}

func TestStoreConcurrentIdentities(t *testing.T) {
	var (
		s  Store
		wg sync.WaitGroup
	)
	for ii := 0; ii < 8; ii++ {
		wg.Add(1)
		go func(ii int) {
			defer wg.Done()
			id := NewID("worker").With(string(rune('a' + ii)))
			for jj := 0; jj < 100; jj++ {
				s.Put(id, Ephemeral, jj)
				v, ok := s.Get(id, Ephemeral)
				assert.True(t, ok)
				assert.Equal(t, jj, v)
			}
		}(ii)
	}
	wg.Wait()
	assert.Equal(t, 8, s.Len())
}
