package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"visitsdash/internal/platform/net/middleware"
)

// StackOptions tunes the shared middleware stacks
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration
	SlowRequest time.Duration
}

func (o StackOptions) withDefaults() StackOptions {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.SlowRequest <= 0 {
		o.SlowRequest = time.Second
	}
	return o
}

// base is shared by both stacks: correlation first so every later log line carries request_id
func base(o StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.Correlate(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.RecoverJSON,
	}
}

// CommonStack returns the baseline middleware for the JSON API scope
func CommonStack(opts ...StackOptions) []func(http.Handler) http.Handler {
	var o StackOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	o = o.withDefaults()
	return append(base(o),
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	)
}

// WebStack returns the middleware for the server rendered page and its form posts
// no CORS: forms post same-origin
func WebStack(opts ...StackOptions) []func(http.Handler) http.Handler {
	var o StackOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	o = o.withDefaults()
	return append(base(o),
		middleware.NoCache(),
		middleware.Compress(flate.DefaultCompression),
		middleware.Timeout(o.Timeout),
	)
}
