package module

import (
	"maps"
	"slices"
	"sync"
)

// port sets by module name, filled while the service is composed and read by
// modules that report on their peers
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set of the named module. A nil set is not stored
func Register(name string, ports any) {
	if ports == nil {
		return
	}
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// Each calls fn, in name order, for every registered port set that satisfies T
func Each[T any](fn func(name string, ports T)) {
	mu.RLock()
	snap := maps.Clone(reg)
	mu.RUnlock()

	for _, name := range slices.Sorted(maps.Keys(snap)) {
		if p, ok := snap[name].(T); ok {
			fn(name, p)
		}
	}
}

// Reset clears the registry
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
