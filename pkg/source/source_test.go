package source

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
	"github.com/xybydy/stremio-m3u/internal/fakeaddon"
	"github.com/xybydy/stremio-m3u/pkg/fetch"
	"github.com/xybydy/stremio-m3u/pkg/m3u"
	"go.uber.org/zap/zaptest"
)

// serve starts a fake addon for f and returns it with its base URL.
func serve(t *testing.T, f fakeaddon.Fixture) (*fakeaddon.Server, string) {
	t.Helper()
	srv := fakeaddon.New(f)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts.URL
}

func newClient(t *testing.T) *fetch.Client {
	t.Helper()
	return fetch.NewClient(fetch.Options{Timeout: 5 * time.Second}, zaptest.NewLogger(t))
}

func urls(entries []m3u.Entry) []string {
	res := make([]string, 0, len(entries))
	for _, e := range entries {
		res = append(res, e.URL)
	}
	return res
}

func TestReport(t *testing.T) {
	r := newReport("test")
	entries := r.add(mo.Ok([]m3u.Entry{{URL: "http://a"}, {URL: "http://b"}}))
	require.Len(t, entries, 2)
	require.Nil(t, r.add(mo.Err[[]m3u.Entry](ErrNoStreams)))
	require.Nil(t, r.add(mo.Err[[]m3u.Entry](ErrNoStreams)))
	r.skip(ErrMissingID)

	require.Equal(t, 2, r.Entries)
	require.Equal(t, map[string]int{"no streams": 2, "missing id": 1}, r.Skipped)
	require.Equal(t, 3, r.SkippedTotal())
}
