package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"visitsdash/internal/modkit"
	"visitsdash/internal/modkit/httpkit"
	"visitsdash/internal/modkit/module"
	phttp "visitsdash/internal/platform/net/http"

	metahttp "visitsdash/internal/services/meta/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type loopPorts struct{ up bool }

func (p loopPorts) Running() bool { return p.up }

func mounted(t *testing.T, m *Module) *chi.Mux {
	t.Helper()
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	return mux
}

func ready(t *testing.T, mux *chi.Mux) (int, metahttp.ReadyResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/meta/ready", nil))
	var env struct {
		Data metahttp.ReadyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr.Code, env.Data
}

func TestModule_MountsUnderPrefix(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	extra := false
	m := New(modkit.Deps{}, modkit.WithRegister(func(r httpkit.Router) {
		extra = true
		r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	}))
	require.Equal(t, "meta", m.Name())
	require.Equal(t, "/meta", m.Prefix())
	require.Nil(t, m.Ports())

	mux := mounted(t, m)
	require.True(t, extra, "external register not called")

	for path, want := range map[string]int{
		"/meta/health": http.StatusOK,
		"/meta/ready":  http.StatusOK, // no upstream configured: degraded, not failed
		"/meta/ping":   http.StatusNoContent,
	} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, want, rr.Code, path)
	}
}

func TestModule_ReadyReadsRegisteredLoops(t *testing.T) {
	module.Reset()
	t.Cleanup(module.Reset)

	mux := mounted(t, New(modkit.Deps{}))

	module.Register("dashboard", loopPorts{up: true})
	module.Register("plain", struct{}{})
	code, body := ready(t, mux)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body.Checks, 2)
	require.Equal(t, metahttp.ReadyCheck{Name: "dashboard_loop", Status: "ok"}, body.Checks[1])

	// registrations are read per request
	module.Register("dashboard", loopPorts{up: false})
	code, body = ready(t, mux)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "fail", body.Status)
}

func TestModule_CustomPrefix(t *testing.T) {
	m := New(modkit.Deps{}, modkit.WithPrefix("status/"))
	require.Equal(t, "/status", m.Prefix())
}
