package testkit

import "testing"

var (
	readBuild = func() string { return "real" }
	perPage   = 10
)

func TestMustPanic_ReturnsRecoveredValue(t *testing.T) {
	got := MustPanic(t, func() { panic("dashboard controller requires a source") })
	if got != "dashboard controller requires a source" {
		t.Fatalf("recovered = %v", got)
	}
}

func TestMustContain(t *testing.T) {
	MustContain(t, "level=info component=dashboard msg=fetch", "component=dashboard")
}

func TestSwap_RestoresAfterSubtest(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &readBuild, func() string { return "fake" })
		Swap(t, &perPage, 25)
		if readBuild() != "fake" || perPage != 25 {
			t.Fatalf("swap did not take effect: %q %d", readBuild(), perPage)
		}
	})
	if readBuild() != "real" || perPage != 10 {
		t.Fatalf("swap did not restore: %q %d", readBuild(), perPage)
	}
}
