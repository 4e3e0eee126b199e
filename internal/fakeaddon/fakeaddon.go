// Package fakeaddon serves catalog fixtures the way a Stremio addon and a static catalog host do.
// It backs the tests and the local example, so the extractor can run without the real upstreams.
package fakeaddon

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/xybydy/stremio-m3u/types"
)

// PageSize is how many metas a catalog page holds.
const PageSize = 100

// Fixture is the content served. Keys of the maps are "{type}/{id}", e.g. "movie/domaci_filmovi" for catalogs
// and "movie/dfm-1" for metas and streams.
type Fixture struct {
	Manifest types.Manifest
	Static   *types.StaticCatalog
	Catalogs map[string][]types.MetaPreviewItem
	Metas    map[string]types.MetaItem
	Streams  map[string][]types.StreamItem
	// Broken paths (like "/meta/movie/dfm-2.json") respond with a truncated JSON body.
	Broken map[string]bool
	// Raw maps paths to JSON bodies served verbatim instead of the typed content above.
	Raw map[string]string
}

// Server is a fiber app serving a Fixture. It records every request path.
type Server struct {
	fixture Fixture
	app     *fiber.App

	mu       sync.Mutex
	requests []string
}

// New creates a Server for f.
func New(f Fixture) *Server {
	s := &Server{fixture: f}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(func(c fiber.Ctx) error {
		s.mu.Lock()
		s.requests = append(s.requests, c.Path())
		s.mu.Unlock()
		if s.fixture.Broken[c.Path()] {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(`{"meta": {"id": `)
		}
		if body, ok := s.fixture.Raw[c.Path()]; ok {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(body)
		}
		return c.Next()
	})

	app.Get("/manifest.json", s.manifestHandler)
	app.Get("/static.json", s.staticHandler)
	app.Get("/catalog/:type/:id/:extras", s.catalogHandler)
	app.Get("/meta/:type/:id.json", s.metaHandler)
	app.Get("/stream/:type/:id.json", s.streamHandler)

	s.app = app
	return s
}

// App returns the underlying fiber app, e.g. to Listen() on it.
func (s *Server) App() *fiber.App {
	return s.app
}

// Handler adapts the app to net/http, for use with httptest.NewServer.
func (s *Server) Handler() http.HandlerFunc {
	return adaptor.FiberApp(s.app)
}

// Requests returns the paths requested so far, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// CountRequests returns how many requested paths start with prefix.
func (s *Server) CountRequests(prefix string) int {
	n := 0
	for _, p := range s.Requests() {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

func (s *Server) manifestHandler(c fiber.Ctx) error {
	return c.JSON(s.fixture.Manifest)
}

func (s *Server) staticHandler(c fiber.Ctx) error {
	if s.fixture.Static == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(s.fixture.Static)
}

// catalogHandler serves "/catalog/:type/:id/skip=200.json". Past the end it returns an empty "metas".
func (s *Server) catalogHandler(c fiber.Ctx) error {
	key := c.Params("type") + "/" + c.Params("id")
	metas, ok := s.fixture.Catalogs[key]
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	extras, err := url.ParseQuery(strings.TrimSuffix(c.Params("extras"), ".json"))
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	skip := 0
	if v := extras.Get("skip"); v != "" {
		if skip, err = strconv.Atoi(v); err != nil || skip < 0 {
			return c.SendStatus(fiber.StatusBadRequest)
		}
	}

	page := []types.MetaPreviewItem{}
	if skip < len(metas) {
		page = metas[skip:min(skip+PageSize, len(metas))]
	}
	return c.JSON(fiber.Map{"metas": page})
}

func (s *Server) metaHandler(c fiber.Ctx) error {
	meta, ok := s.fixture.Metas[c.Params("type")+"/"+c.Params("id")]
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.JSON(types.MetaResponse{Meta: &meta})
}

func (s *Server) streamHandler(c fiber.Ctx) error {
	streams, ok := s.fixture.Streams[c.Params("type")+"/"+c.Params("id")]
	if !ok {
		return c.JSON(fiber.Map{"streams": []types.StreamItem{}})
	}
	return c.JSON(types.StreamResponse{Streams: streams})
}
