package scan

import "sync"

// Source is the decode capability: camera plus QR engine, reduced to an
// event source that emits decoded strings between Start and Stop. emit
// must not be invoked synchronously from inside Start.
type Source interface {
	Start(emit func(code string)) error
	Stop() error
}

// guarded makes acquisition/release idempotent: double-start and
// double-stop are no-ops and never error, regardless of the wrapped
// implementation.
type guarded struct {
	mu      sync.Mutex
	src     Source
	running bool
}

func newGuarded(src Source) *guarded { return &guarded{src: src} }

func (g *guarded) Start(emit func(code string)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return nil
	}
	if err := g.src.Start(emit); err != nil {
		return err
	}
	g.running = true
	return nil
}

func (g *guarded) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running {
		return nil
	}
	g.running = false
	return g.src.Stop()
}

func (g *guarded) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// NoopSource stands in for the camera when codes arrive externally, as
// they do on the HTTP surface where the device posts decoded strings.
type NoopSource struct{}

func (NoopSource) Start(func(code string)) error { return nil }
func (NoopSource) Stop() error                   { return nil }
