package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"visitsdash/internal/modkit"
	"visitsdash/internal/modkit/module"
	"visitsdash/internal/platform/config"
	phttp "visitsdash/internal/platform/net/http"
	"visitsdash/internal/services/dashboard/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	visits atomic.Int32
}

func (s *stubSource) Visits(context.Context, domain.Query) (domain.VisitPage, error) {
	s.visits.Add(1)
	return domain.VisitPage{Rows: []domain.VisitRecord{{ID: "1", Visits: 5}}, Pages: 2}, nil
}

func (s *stubSource) Categories(context.Context) ([]string, error) { return []string{"Retail"}, nil }
func (s *stubSource) DMAs(context.Context) ([]string, error)       { return []string{"Boston"}, nil }

func TestFromConfig(t *testing.T) {
	t.Setenv("DASH_PER_PAGE", "25")
	t.Setenv("DASH_FENCE_RESPONSES", "false")
	t.Setenv("DASH_WAIT_TIMEOUT", "750ms")
	t.Setenv("DASH_LOCALE", "fr-FR")

	o := FromConfig(config.New())
	require.Equal(t, 25, o.PerPage)
	require.False(t, o.FenceResponses)
	require.Equal(t, 750*time.Millisecond, o.WaitTimeout)
	require.Equal(t, 10*time.Second, o.FetchTimeout)
	require.Equal(t, "fr-FR", o.Locale)
}

func TestNew_RequiresSource(t *testing.T) {
	require.Panics(t, func() { New(modkit.Deps{}, Options{}) })
}

func TestRun_MountsAndLoadsReference(t *testing.T) {
	src := &stubSource{}
	m := New(modkit.Deps{}, Options{Source: src})
	require.Equal(t, "dashboard", m.Name())
	require.Equal(t, "/dashboard", m.Prefix())

	ports := module.MustPortsOf[Ports](m)
	require.NotNil(t, ports.Controller)
	require.False(t, ports.Running())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- ports.Runner.Run(ctx) }()

	require.Eventually(t, func() bool {
		v := ports.Controller.View()
		return v.Loaded && len(v.Reference.DMAs) == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.True(t, ports.Running())
	v := ports.Controller.View()
	require.Equal(t, 2, v.Paging.TotalPages)
	require.Equal(t, []string{"Retail"}, v.Reference.Categories)
	require.EqualValues(t, 1, src.visits.Load())

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
		require.False(t, ports.Running())
	case <-time.After(2 * time.Second):
		require.FailNow(t, "Run did not return after cancel")
	}
}

func TestRoutes(t *testing.T) {
	m := New(modkit.Deps{}, Options{Source: &stubSource{}, WaitTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Run(ctx) }()

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	m.MountPage(r, nil)
	r.Route("/api/v1", func(api phttp.Router) { m.MountRoutes(api) })

	require.Eventually(t, func() bool { return m.ctl.View().Loaded }, 2*time.Second, 5*time.Millisecond)

	for _, path := range []string{"/", "/api/v1/dashboard/state"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rr.Code, path)
	}
}
