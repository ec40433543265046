// Package testkit holds the helpers shared by package tests
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic fails the test unless fn panics. It returns the recovered value so
// callers can check the panic message
func MustPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatal("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// MustContain fails unless out contains want. Long captured output (log lines,
// validation messages) is saved under the test's temp dir instead of the failure text
func MustContain(t *testing.T, out, want string) {
	t.Helper()
	if strings.Contains(out, want) {
		return
	}
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + ".out"
	path := filepath.Join(t.TempDir(), name)
	_ = os.WriteFile(path, []byte(out), 0o600)
	t.Fatalf("missing %q; captured output in %s", want, path)
}

// Swap replaces *target for the rest of the test; the original comes back in cleanup
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}
