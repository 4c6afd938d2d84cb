package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tutorial/internal/tutorial"
)

func TestObserveOutcomeCountsByKind(t *testing.T) {
	m := New()

	m.ObserveOutcome(tutorial.Outcome{Kind: tutorial.OutcomeFound})
	m.ObserveOutcome(tutorial.Outcome{Kind: tutorial.OutcomeFound})
	m.ObserveOutcome(tutorial.Outcome{Kind: tutorial.OutcomeRedirect})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutions.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("redirect")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.resolutions.WithLabelValues("not_found")))
}

func TestObserveReload(t *testing.T) {
	m := New()

	m.ObserveReload(nil)
	m.ObserveReload(errors.New("slug conflict"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.contentReloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contentReloads.WithLabelValues("error")))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveOutcome(tutorial.Outcome{Kind: tutorial.OutcomeNotFound})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tutorial_resolutions_total{outcome="not_found"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
