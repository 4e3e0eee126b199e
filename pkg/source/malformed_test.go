package source

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xybydy/stremio-m3u/internal/fakeaddon"
	"github.com/xybydy/stremio-m3u/pkg/m3u"
	"github.com/xybydy/stremio-m3u/types"
	"go.uber.org/zap/zaptest"
)

func TestStaticOddlyTypedFields(t *testing.T) {
	_, base := serve(t, fakeaddon.Fixture{Raw: map[string]string{
		"/static.json": `{
			"movies": [
				{"id": "tt1", "name": "Prvi", "category": "EX YU FILMOVI", "streams": [{"url": "http://a"}]},
				{"id": "tt2", "name": "Drugi", "category": "EX YU FILMOVI", "streams": [{"url": "http://b", "title": 1080}]},
				"garbage"
			],
			"series": [
				{"id": "s", "name": "Serija", "streams": [{"url": 7}, {"url": "http://s"}]}
			]
		}`,
	}})

	s := NewStatic(base+"/static.json", nil, newClient(t), zaptest.NewLogger(t), &bytes.Buffer{})
	entries, report := s.Collect(context.Background())
	require.Equal(t, []string{"http://a", "http://b", "http://s"}, urls(entries))
	require.Equal(t, 3, report.Items)
	require.Equal(t, map[string]int{"malformed": 1}, report.Skipped)
}

func TestAddonOddlyTypedPreview(t *testing.T) {
	srv, base := serve(t, fakeaddon.Fixture{
		Catalogs: map[string][]types.MetaPreviewItem{"movie/domaci_filmovi": {}},
		Metas: map[string]types.MetaItem{
			"movie/b": {Record: types.Record{ID: "b", Name: "Drugi"}},
		},
		Streams: map[string][]types.StreamItem{
			"movie/a": {{URL: "http://a"}},
			"movie/b": {{URL: "http://b"}},
		},
		Raw: map[string]string{
			"/catalog/movie/domaci_filmovi/skip=0.json": `{"metas": [{"id": "a", "name": "Ok"}, {"id": "b", "name": 1941}, 42]}`,
			"/meta/movie/a.json": `{"meta": {"id": "a", "name": 1941, "year": 1979, "genres": "none"}}`,
		},
	})

	entries, report := newMovieAddon(t, base, 1, &bytes.Buffer{}).Collect(context.Background())
	require.Equal(t, []string{"http://a", "http://b"}, urls(entries))
	require.Equal(t, `#EXTINF:-1 tvg-name="1941" group-title="Movies", 1941 (1979)`, entries[0].Header.Line)
	require.Equal(t, 3, report.Items)
	require.Equal(t, map[string]int{"malformed": 1}, report.Skipped)
	// Paging goes on past the page with the odd preview.
	require.Equal(t, 2, srv.CountRequests("/catalog/"))
}

func TestAddonOddlyTypedEpisode(t *testing.T) {
	_, base := serve(t, fakeaddon.Fixture{
		Catalogs: map[string][]types.MetaPreviewItem{"series/domaci_serije": {{ID: "dfs-1"}}},
		Streams: map[string][]types.StreamItem{
			"series/dfs-1-e1": {{URL: "http://e1"}},
			"series/dfs-1-e2": {{URL: "http://e2"}},
		},
		Raw: map[string]string{
			"/meta/series/dfs-1.json": `{"meta": {"id": "dfs-1", "name": "Grlom u jagode", "videos": [
				{"id": "dfs-1-e1", "season": 1},
				{"id": "dfs-1-e2", "season": "1"},
				"x"
			]}}`,
		},
	})

	a := NewAddon(AddonOptions{BaseURL: base, CatalogID: "domaci_serije", Type: m3u.Series}, newClient(t), zaptest.NewLogger(t), &bytes.Buffer{})
	entries, report := a.Collect(context.Background())
	require.Equal(t, []string{"http://e1", "http://e2"}, urls(entries))
	require.Equal(t, entries[0].Header, entries[1].Header)
	require.Equal(t, 1, report.Items)
	require.Equal(t, map[string]int{"episode malformed": 1}, report.Skipped)
}
