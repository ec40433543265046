package module

import (
	"time"

	"visitsdash/internal/platform/config"
	"visitsdash/internal/services/dashboard/domain"
	"visitsdash/internal/services/dashboard/state"
)

// Options controls the dashboard controller and its transport
type Options struct {
	PerPage        int
	FenceResponses bool
	FetchTimeout   time.Duration
	WaitTimeout    time.Duration
	Locale         string

	// Source overrides deps.Upstream, mostly for tests
	Source domain.Source
}

// FromConfig reads with the DASH_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("DASH_")
	return Options{
		PerPage:        c.MayPositiveInt("PER_PAGE", state.DefaultPerPage),
		FenceResponses: c.MayBool("FENCE_RESPONSES", true),
		FetchTimeout:   c.MayDuration("FETCH_TIMEOUT", 10*time.Second),
		WaitTimeout:    c.MayDuration("WAIT_TIMEOUT", 5*time.Second),
		Locale:         c.MayString("LOCALE", "en-US"),
	}
}
