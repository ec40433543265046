package visitsapi

import (
	"context"
	"errors"
	"io"
	"net/url"
)

// StatusError wraps non-2xx responses from the visits source
type StatusError struct {
	Status int
	Body   string
	Err    error
}

// Error interface
func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// StatusOf returns the upstream HTTP status carried by err, or 0
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// timedOut reports whether err came from a deadline, either the caller's or
// the client's own http.Client.Timeout
func timedOut(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Timeout()
	}
	// body reads cut short by the client timeout surface as a bare net timeout
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
