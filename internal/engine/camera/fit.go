package camera

import "sync"

// FitGuard runs a camera fit at most once per resource identity. A new
// identity, such as a different mesh file, allows one more fit.
type FitGuard struct {
	mu     sync.Mutex
	fitted string
	done   bool
}

// FitOnce calls fit if key differs from the last fitted key and reports
// whether it ran.
func (g *FitGuard) FitOnce(key string, fit func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done && g.fitted == key {
		return false
	}
	fit()
	g.fitted = key
	g.done = true
	return true
}

// Reset forgets the last fitted key.
func (g *FitGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fitted = ""
	g.done = false
}

// Key returns the last fitted key, if any.
func (g *FitGuard) Key() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fitted, g.done
}
