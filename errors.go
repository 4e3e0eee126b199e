package stremiom3u

import (
	"errors"
)

var (
	// ErrNoSource signals that every source was disabled.
	ErrNoSource = errors.New("no source enabled")
	// ErrManifestUnavailable signals that the addon manifest couldn't be fetched.
	// The reason was already logged by the fetcher.
	ErrManifestUnavailable = errors.New("manifest unavailable")
)
