package texture

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// State that a texture load can be in.
type State byte

const (
	Queued State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

// Resource is a snapshot of a texture load.
type Resource struct {
	State State
	// Texture is set once State is Loaded and the load succeeded.
	Texture *Texture
	// Err is set once State is Loaded and the load failed.
	Err error
}

// Manager loads textures by key and hands out the same *Texture for
// repeated requests of a key. Loads run either on the calling goroutine (Get)
// or on a fixed pool of workers (Schedule).
//
// The zero value is not usable: FS must be set. A Manager is safe for
// concurrent use. Close stops the background workers once the Manager is no
// longer needed.
type Manager struct {
	// FS provides the assets.
	FS fs.FS
	// Workers is the number of background decoders used by Schedule.
	// Defaults to NumCPU.
	Workers int
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	init    sync.Once
	updated chan struct{}
	queue   chan func()
	done    chan struct{}
	stop    sync.Once

	mu       sync.Mutex
	textures map[string]*resource
}

// resource records a single load. done is closed once state is Loaded.
type resource struct {
	state State
	tex   *Texture
	err   error
	done  chan struct{}
}

// NewManager returns a manager loading assets from fsys.
func NewManager(fsys fs.FS) *Manager {
	return &Manager{FS: fsys}
}

func (m *Manager) initialize() {
	m.updated = make(chan struct{}, 1)
	m.queue = make(chan func())
	m.done = make(chan struct{})
	if m.Workers <= 0 {
		m.Workers = runtime.NumCPU()
	}
	for ii := 0; ii < m.Workers; ii++ {
		go func() {
			for {
				select {
				case w := <-m.queue:
					w()
				case <-m.done:
					return
				}
			}
		}()
	}
}

// Close stops the background workers. Loads scheduled afterwards never
// complete; Get keeps working on the calling goroutine.
func (m *Manager) Close() {
	m.init.Do(m.initialize)
	m.stop.Do(func() {
		close(m.done)
	})
}

func (m *Manager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Get returns the texture for key, loading it on the calling goroutine if
// it has not been requested before. If a background load is in flight, Get
// waits for it.
func (m *Manager) Get(key string) (*Texture, error) {
	m.init.Do(m.initialize)
	r, fresh := m.establish(key)
	if fresh {
		m.load(key, r)
	}
	<-r.done
	return r.tex, r.err
}

// Schedule requests key to be loaded in the background and reports the
// current state of the load. The first call queues the load, subsequent calls
// poll it; watch Updated to learn when to poll again.
func (m *Manager) Schedule(key string) Resource {
	m.init.Do(m.initialize)
	r, fresh := m.establish(key)
	if fresh {
		// Hand off without blocking layout when all workers are busy.
		go func() {
			select {
			case m.queue <- func() { m.load(key, r) }:
			case <-m.done:
			}
		}()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Resource{State: r.state, Texture: r.tex, Err: r.err}
}

// Updated returns a channel that reports a load has finished or a texture was
// evicted. Integrate it into the event loop to invalidate the window.
//
//	case <-textures.Updated():
//		w.Invalidate()
func (m *Manager) Updated() <-chan struct{} {
	m.init.Do(m.initialize)
	return m.updated
}

// Evict forgets the texture for key, so that the next request loads it anew.
func (m *Manager) Evict(key string) {
	m.mu.Lock()
	_, ok := m.textures[key]
	delete(m.textures, key)
	m.mu.Unlock()
	if ok {
		m.logger().Debug("texture evicted", "key", key)
		m.update()
	}
}

// establish the resource for key, allocating it if absent. fresh reports
// whether the caller is responsible for loading it.
func (m *Manager) establish(key string) (r *resource, fresh bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.textures[key]; ok {
		return r, false
	}
	if m.textures == nil {
		m.textures = make(map[string]*resource)
	}
	r = &resource{state: Queued, done: make(chan struct{})}
	m.textures[key] = r
	return r, true
}

// load performs the blocking decode and publishes the result.
func (m *Manager) load(key string, r *resource) {
	m.mu.Lock()
	r.state = Loading
	m.mu.Unlock()
	tex, err := Load(m.FS, key)
	if err != nil {
		m.logger().Error("texture load failed", "key", key, "err", err)
	} else {
		m.logger().Debug("texture loaded", "key", key, "width", tex.Size.X, "height", tex.Size.Y)
	}
	m.mu.Lock()
	r.state, r.tex, r.err = Loaded, tex, err
	m.mu.Unlock()
	close(r.done)
	m.update()
}

func (m *Manager) update() {
	if m.updated == nil {
		return
	}
	select {
	case m.updated <- struct{}{}:
	default:
	}
}

// Watch evicts textures whose files under dir change, until ctx is done.
// dir must be the directory FS reads from.
func (m *Manager) Watch(ctx context.Context, dir string) error {
	m.init.Do(m.initialize)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching textures: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching textures in %s: %w", dir, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			rel, err := filepath.Rel(dir, ev.Name)
			if err != nil {
				continue
			}
			m.Evict(filepath.ToSlash(rel))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger().Warn("texture watcher", "err", err)
		}
	}
}
