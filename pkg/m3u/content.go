package m3u

// ContentType tags where a playlist entry came from. It decides the group-title of the header.
type ContentType int

const (
	Movie ContentType = iota + 1
	Series
)

// Group titles written into headers.
const (
	GroupMovies = "Movies"
	GroupSeries = "Series"
)

// String returns the Stremio type name, which is also the path segment of addon resources.
// It's empty for values other than Movie and Series.
func (ct ContentType) String() string {
	switch ct {
	case Movie:
		return "movie"
	case Series:
		return "series"
	}
	return ""
}

// Group returns the group-title for the content type. Anything but Series groups as Movies.
func (ct ContentType) Group() string {
	if ct == Series {
		return GroupSeries
	}
	return GroupMovies
}
