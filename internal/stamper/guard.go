package stamper

import "sync"

// Guard admits at most one run per document path.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewGuard returns an empty guard.
func NewGuard() *Guard {
	return &Guard{inFlight: map[string]struct{}{}}
}

// Enter claims path. It returns false when a run for path is already in flight.
func (g *Guard) Enter(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[path]; busy {
		return false
	}
	g.inFlight[path] = struct{}{}
	return true
}

// Exit releases path.
func (g *Guard) Exit(path string) {
	g.mu.Lock()
	delete(g.inFlight, path)
	g.mu.Unlock()
}

// Busy reports whether a run for path is in flight.
func (g *Guard) Busy(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[path]
	return busy
}
