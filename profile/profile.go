// Package profile wraps pkg/profile and the Gio frame timing recorder behind
// one switch, and reports nine-slice cache activity while profiling.
package profile

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gioui.org/layout"
	"gioui.org/x/profiling"
	"git.sr.ht/~gioverse/nineslice"
	"github.com/pkg/profile"
)

// Opt specifies the various profiling options.
type Opt string

const (
	None      Opt = "none"
	CPU       Opt = "cpu"
	Memory    Opt = "mem"
	Block     Opt = "block"
	Goroutine Opt = "goroutine"
	Mutex     Opt = "mutex"
	Trace     Opt = "trace"
	Gio       Opt = "gio"
)

var modes = map[Opt]func(*profile.Profile){
	CPU:       profile.CPUProfile,
	Memory:    profile.MemProfile,
	Block:     profile.BlockProfile,
	Goroutine: profile.GoroutineProfile,
	Mutex:     profile.MutexProfile,
	Trace:     profile.TraceProfile,
}

// ParseOpt validates a profiling option given on the command line. Empty
// means None.
func ParseOpt(s string) (Opt, error) {
	opt := Opt(strings.ToLower(strings.TrimSpace(s)))
	switch opt {
	case "":
		return None, nil
	case None, Gio:
		return opt, nil
	}
	if _, ok := modes[opt]; ok {
		return opt, nil
	}
	return None, fmt.Errorf("unknown profile %q", s)
}

// Profiler runs one kind of profile for the lifetime of the program and logs
// cache stats every Interval while it does.
type Profiler struct {
	Type Opt
	// Cache, when set, has its stats logged.
	Cache *nineslice.Resolver
	// Interval between cache reports. Defaults to one second.
	Interval time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	stop     func()
	recorder *profiling.CSVTimingRecorder
	last     time.Time
	previous nineslice.Stats
}

// NewProfiler creates a profiler based on the selected option.
func (p Opt) NewProfiler() *Profiler {
	return &Profiler{Type: p}
}

func (pfn *Profiler) logger() *slog.Logger {
	if pfn.Logger != nil {
		return pfn.Logger
	}
	return slog.Default()
}

// Start profiling.
func (pfn *Profiler) Start() {
	switch pfn.Type {
	case "", None:
		return
	case Gio:
		recorder, err := profiling.NewRecorder(nil)
		if err != nil {
			pfn.logger().Error("starting frame timing recorder", "err", err)
			return
		}
		pfn.recorder = recorder
		pfn.stop = func() {
			if err := recorder.Stop(); err != nil {
				pfn.logger().Error("stopping frame timing recorder", "err", err)
			}
		}
	default:
		mode, ok := modes[pfn.Type]
		if !ok {
			pfn.logger().Warn("unknown profile", "type", pfn.Type)
			return
		}
		pfn.stop = profile.Start(mode, profile.Quiet).Stop
	}
	pfn.logger().Info("profiling", "type", pfn.Type)
}

// Stop profiling.
func (pfn *Profiler) Stop() {
	if pfn.stop != nil {
		pfn.stop()
		pfn.stop = nil
	}
}

// Record GUI stats per frame.
func (pfn *Profiler) Record(gtx layout.Context) {
	if pfn.recorder != nil {
		pfn.recorder.Profile(gtx)
	}
	pfn.recordCache(gtx.Now)
}

// recordCache logs the cache activity since the previous report.
func (pfn *Profiler) recordCache(now time.Time) {
	if pfn.Cache == nil || pfn.Type == None || pfn.Type == "" {
		return
	}
	interval := pfn.Interval
	if interval <= 0 {
		interval = time.Second
	}
	if now.Sub(pfn.last) < interval {
		return
	}
	pfn.last = now
	stats := pfn.Cache.Stats()
	pfn.logger().Info("nine-slice cache",
		"hits", stats.Hits-pfn.previous.Hits,
		"misses", stats.Misses-pfn.previous.Misses,
		"builds", stats.Builds-pfn.previous.Builds,
	)
	pfn.previous = stats
}
