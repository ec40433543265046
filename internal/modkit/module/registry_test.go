package module

import (
	"sync"
	"testing"
)

type liveness interface{ Running() bool }

type loopPorts struct{ up bool }

func (p loopPorts) Running() bool { return p.up }

type plainPorts struct{ Name string }

func collect(t *testing.T) map[string]bool {
	t.Helper()
	got := map[string]bool{}
	Each(func(name string, l liveness) { got[name] = l.Running() })
	return got
}

func TestRegistry_EachFiltersByType(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("dashboard", loopPorts{up: true})
	Register("reports", loopPorts{up: false})
	Register("plain", plainPorts{Name: "plain"})
	Register("meta", nil)

	got := collect(t)
	if len(got) != 2 || !got["dashboard"] || got["reports"] {
		t.Fatalf("unexpected loops %v", got)
	}
}

func TestRegistry_EachVisitsInNameOrder(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	for _, n := range []string{"c", "a", "b"} {
		Register(n, plainPorts{Name: n})
	}
	var order []string
	Each(func(name string, _ plainPorts) { order = append(order, name) })
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("order = %v", order)
	}
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("dashboard", loopPorts{up: false})
	Register("dashboard", loopPorts{up: true})
	if got := collect(t); !got["dashboard"] {
		t.Fatalf("expected overwritten value, got %v", got)
	}
}

func TestRegistry_ResetClearsAll(t *testing.T) {
	Register("x", loopPorts{up: true})
	Reset()
	if got := collect(t); len(got) != 0 {
		t.Fatalf("expected empty registry after reset, got %v", got)
	}
}

func TestRegistry_ConcurrentRegisterAndEach(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			Register("concurrent", loopPorts{up: i%2 == 0})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			Each(func(string, liveness) {})
		}
	}()
	wg.Wait()

	if _, ok := collect(t)["concurrent"]; !ok {
		t.Fatal("expected concurrent entry after writes")
	}
}
