package modkit

import (
	"net/http"
	"reflect"
	"testing"

	"visitsdash/internal/modkit/httpkit"
)

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	b := Build()
	if b.Name != "" || b.Prefix != "" {
		t.Fatalf("defaults = %q %q, want empty", b.Name, b.Prefix)
	}
	if b.Ports != nil {
		t.Fatalf("default Ports non-nil")
	}
	if len(b.Mw) != 0 {
		t.Fatalf("default Mw length = %d, want 0", len(b.Mw))
	}

	defer func() {
		if v := recover(); v != nil {
			t.Fatalf("default Register panicked: %v", v)
		}
	}()
	var r httpkit.Router
	b.Register(r)
}

func TestBuild_WithOptionsAndCopySemantics(t *testing.T) {
	t.Parallel()

	fnPtr := func(f func(http.Handler) http.Handler) uintptr {
		return reflect.ValueOf(f).Pointer()
	}
	mwA := func(next http.Handler) http.Handler { return next }
	mwB := func(next http.Handler) http.Handler { return next }
	mid := []func(http.Handler) http.Handler{mwA, mwB}

	regCalled := 0
	type ports struct{ X int }

	b := Build(
		WithName("dashboard"),
		WithPrefix("/dashboard"),
		WithMiddlewares(mid...),
		WithPorts(ports{X: 7}),
		WithRegister(func(httpkit.Router) { regCalled++ }),
	)

	if b.Name != "dashboard" || b.Prefix != "/dashboard" {
		t.Fatalf("name/prefix = %q %q", b.Name, b.Prefix)
	}
	if got, ok := b.Ports.(ports); !ok || got.X != 7 {
		t.Fatalf("Ports mismatch after Build: %#v", b.Ports)
	}
	if len(b.Mw) != 2 || fnPtr(b.Mw[0]) != fnPtr(mwA) || fnPtr(b.Mw[1]) != fnPtr(mwB) {
		t.Fatalf("Mw contents not preserved")
	}

	// Built.Mw is a copy
	mid[0] = func(next http.Handler) http.Handler { return next }
	if fnPtr(b.Mw[0]) != fnPtr(mwA) {
		t.Fatalf("Built.Mw changed after source slice mutation")
	}

	b.Register(nil)
	if regCalled != 1 {
		t.Fatalf("Register calls = %d, want 1", regCalled)
	}
}

func TestWithMiddlewares_Appends(t *testing.T) {
	t.Parallel()

	mw := func(next http.Handler) http.Handler { return next }
	b := Build(WithMiddlewares(mw), WithMiddlewares(mw, mw))
	if len(b.Mw) != 3 {
		t.Fatalf("Mw length = %d, want 3", len(b.Mw))
	}
}
