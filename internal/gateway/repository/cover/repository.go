package cover

import (
	"context"
	"errors"
	"math/rand/v2"
	"path"
	"strings"
)

// Covers is the fixed set of interview cover images.
var Covers = []string{
	"/adobe.png",
	"/amazon.png",
	"/facebook.png",
	"/hostinger.png",
	"/pinterest.png",
	"/quora.png",
	"/reddit.png",
	"/skype.png",
	"/spotify.png",
	"/telegram.png",
	"/tiktok.png",
	"/yahoo.png",
}

// PathPrefix is where covers are served from.
const PathPrefix = "/covers"

// Store resolves a cover name to a fetchable URL.
type Store interface {
	URL(ctx context.Context, name string) (string, error)
}

var ErrNotFound = errors.New("cover not found")

// Random picks a cover and returns its public path, e.g. "/covers/adobe.png".
func Random() string {
	return PathPrefix + Covers[rand.IntN(len(Covers))]
}

// Known reports whether name (with or without leading slash) is in the set.
func Known(name string) bool {
	want := "/" + strings.TrimLeft(path.Clean("/"+strings.TrimSpace(name)), "/")
	for _, c := range Covers {
		if c == want {
			return true
		}
	}
	return false
}
