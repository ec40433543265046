package visitsapi

import "visitsdash/internal/platform/config"

// FromConfig reads UPSTREAM_URL and UPSTREAM_TIMEOUT under cfg's prefix
func FromConfig(cfg config.Conf) Options {
	return Options{
		BaseURL:   cfg.MayURL("UPSTREAM_URL", baseURLDefault).String(),
		UserAgent: cfg.MayString("UPSTREAM_USER_AGENT", defaultUA),
		Timeout:   cfg.MayDuration("UPSTREAM_TIMEOUT", defaultTimeout),
	}
}
