package strings

import (
	"testing"

	"visitsdash/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []int{1, 2, 3}
	def := []int{9}
	got := IfEmpty(in, def)
	if len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	// empty slice should fall back to default
	var empty []string
	def2 := []string{"x"}
	got2 := IfEmpty(empty, def2)
	if len(got2) != 1 || got2[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got2)
	}
}

func TestMustString(t *testing.T) {
	if got := MustString("ok", "name"); got != "ok" {
		t.Fatalf("want ok got %q", got)
	}
	r := testkit.MustPanic(t, func() { _ = MustString("   ", "name") })
	if r != "name is required" {
		t.Fatalf("panic = %v", r)
	}
}

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"/dashboard/":   "/dashboard",
		" dashboard  ":  "/dashboard",
		"//dashboard//": "/dashboard",
		"/":             "", // should panic
		"":              "", // should panic
	}
	for in, want := range cases {
		if want == "" {
			testkit.MustPanic(t, func() { _ = MustPrefix(in) })
			continue
		}
		if got := MustPrefix(in); got != want {
			t.Fatalf("in %q want %q got %q", in, want, got)
		}
	}
}
