package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type doc struct {
	Name string `json:"name"`
}

// newServer counts requests and responds with handler.
func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var count atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts, &count
}

func TestJSON(t *testing.T) {
	headers := make(chan http.Header, 1)
	ts, count := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		_, _ = w.Write([]byte(`{"name": "Maratonci"}`))
	})

	c := NewClient(Options{}, zaptest.NewLogger(t))
	got, ok := JSON[doc](context.Background(), c, ts.URL).Get()
	require.True(t, ok)
	require.Equal(t, doc{Name: "Maratonci"}, got)
	h := <-headers
	require.Equal(t, "StreamArr-Extractor/1.0", h.Get("User-Agent"))
	require.Equal(t, "application/json", h.Get("Accept"))
	require.EqualValues(t, 1, count.Load())
}

func TestJSONCustomUserAgent(t *testing.T) {
	userAgents := make(chan string, 1)
	ts, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{}`))
	})

	c := NewClient(Options{UserAgent: "test/1.0"}, zaptest.NewLogger(t))
	require.True(t, JSON[doc](context.Background(), c, ts.URL).IsPresent())
	require.Equal(t, "test/1.0", <-userAgents)
}

func TestJSONFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.NotFound(w, nil)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"name": `))
			},
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[1, 2, 3]`))
			},
		},
		{
			name: "timeout",
			handler: func(_ http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ts, count := newServer(t, test.handler)
			failures := metrics.NewSet().NewCounter("fetch_failures_total")

			c := NewClient(Options{Timeout: 50 * time.Millisecond, Failures: failures}, zaptest.NewLogger(t))
			require.True(t, JSON[doc](context.Background(), c, ts.URL).IsAbsent())
			require.EqualValues(t, 1, count.Load())
			require.EqualValues(t, 1, failures.Get())
		})
	}
}

func TestJSONUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	c := NewClient(Options{}, zaptest.NewLogger(t))
	require.True(t, JSON[doc](context.Background(), c, ts.URL).IsAbsent())
}

func TestJSONRetries(t *testing.T) {
	var count *atomic.Int32
	ts, count := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if count.Load() == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"name": "Balkanski spijun"}`))
	})

	c := NewClient(Options{Attempts: 3, Delay: time.Millisecond}, zaptest.NewLogger(t))
	got, ok := JSON[doc](context.Background(), c, ts.URL).Get()
	require.True(t, ok)
	require.Equal(t, "Balkanski spijun", got.Name)
	require.EqualValues(t, 2, count.Load())
}

func TestJSONDoesntRetryMalformedBody(t *testing.T) {
	ts, count := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	c := NewClient(Options{Attempts: 3, Delay: time.Millisecond}, zaptest.NewLogger(t))
	require.True(t, JSON[doc](context.Background(), c, ts.URL).IsAbsent())
	require.EqualValues(t, 1, count.Load())
}

func TestJSONCanceled(t *testing.T) {
	ts, count := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Options{}, zaptest.NewLogger(t))
	require.True(t, JSON[doc](ctx, c, ts.URL).IsAbsent())
	require.Zero(t, count.Load())
}
