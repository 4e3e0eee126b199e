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

var staticFixture = fakeaddon.Fixture{
	Static: &types.StaticCatalog{
		Movies: []types.StaticItem{
			{
				Record:   types.Record{ID: "tt0076276", Name: "Ko to tamo peva", Year: "1980"},
				Category: "EX YU FILMOVI",
				Streams:  []types.StreamItem{{URL: "http://media/kttp-1.mp4"}, {URL: "http://media/kttp-2.mp4"}},
			},
			{
				Record:   types.Record{ID: "local-1", Name: "Strani film"},
				Category: "Drugo",
				Streams:  []types.StreamItem{{URL: "http://media/strani.mp4"}},
			},
			{
				Record:   types.Record{ID: "local-2", Name: "Bez strima"},
				Category: "KLASICI",
				Streams:  []types.StreamItem{{URL: ""}},
			},
			{
				Record:   types.Record{ID: "local-3", Name: "Pogresna kategorija"},
				Category: "ex yu filmovi",
				Streams:  []types.StreamItem{{URL: "http://media/case.mp4"}},
			},
		},
		Series: []types.StaticItem{
			{
				Record:   types.Record{ID: "bz", Name: "Bolji zivot", Poster: "https://image.tmdb.org/t/p/w500/57425.jpg"},
				Category: "Drugo",
				Streams:  []types.StreamItem{{URL: "http://media/bz-1.mp4"}, {URL: ""}, {URL: "http://media/bz-2.mp4"}},
			},
			{
				Record: types.Record{ID: "empty", Name: "Prazna serija"},
			},
		},
	},
}

func TestStaticCollect(t *testing.T) {
	_, base := serve(t, staticFixture)
	var out bytes.Buffer

	s := NewStatic(base+"/static.json", nil, newClient(t), zaptest.NewLogger(t), &out)
	require.Equal(t, "static", s.Name())

	entries, report := s.Collect(context.Background())
	require.Equal(t, []string{
		"http://media/kttp-1.mp4",
		"http://media/kttp-2.mp4",
		"http://media/bz-1.mp4",
		"http://media/bz-2.mp4",
	}, urls(entries))

	// Streams of one item share the header.
	require.Equal(t, entries[0].Header, entries[1].Header)
	require.Equal(t, `#EXTINF:-1 tvg-id="0076276" tvg-name="Ko to tamo peva" group-title="Movies", Ko to tamo peva (1980)`, entries[0].Header.Line)
	require.Equal(t, entries[2].Header, entries[3].Header)
	require.Equal(t, m3u.GroupSeries, entries[2].Header.Group)
	require.Equal(t, "57425", entries[2].Header.ExternalID.MustGet())

	require.Equal(t, 2, report.Items)
	require.Equal(t, 4, report.Entries)
	require.Equal(t, map[string]int{"filtered": 2, "no streams": 2}, report.Skipped)

	require.Equal(t, "Fetching static catalog...\n   Loaded 1 domestic movies + 1 domestic series\n", out.String())
}

func TestStaticCategories(t *testing.T) {
	_, base := serve(t, staticFixture)

	s := NewStatic(base+"/static.json", []string{"Drugo"}, newClient(t), zaptest.NewLogger(t), &bytes.Buffer{})
	entries, report := s.Collect(context.Background())
	require.Equal(t, []string{
		"http://media/strani.mp4",
		"http://media/bz-1.mp4",
		"http://media/bz-2.mp4",
	}, urls(entries))
	require.Equal(t, 2, report.Items)
}

func TestStaticUnavailable(t *testing.T) {
	_, base := serve(t, fakeaddon.Fixture{})
	var out bytes.Buffer

	s := NewStatic(base+"/static.json", nil, newClient(t), zaptest.NewLogger(t), &out)
	entries, report := s.Collect(context.Background())
	require.Empty(t, entries)
	require.Zero(t, report.Items)
	require.Equal(t, map[string]int{"catalog unavailable": 1}, report.Skipped)
	require.Equal(t, "Fetching static catalog...\n", out.String())
}

func TestStaticBroken(t *testing.T) {
	srv, base := serve(t, fakeaddon.Fixture{
		Static: staticFixture.Static,
		Broken: map[string]bool{"/static.json": true},
	})

	s := NewStatic(base+"/static.json", nil, newClient(t), zaptest.NewLogger(t), &bytes.Buffer{})
	entries, report := s.Collect(context.Background())
	require.Empty(t, entries)
	require.Equal(t, 1, report.SkippedTotal())
	require.Equal(t, 1, srv.CountRequests("/static.json"))
}
