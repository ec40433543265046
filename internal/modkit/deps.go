// Package modkit provides module wiring and core deps
package modkit

import (
	"visitsdash/internal/adapters/visitsapi"
	"visitsdash/internal/platform/config"
	"visitsdash/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log      logger.Logger
	Cfg      config.Conf
	Upstream *visitsapi.Client
}
