package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// Origins is the set of browser origins allowed to call the API with the
// session cookie.
type Origins struct {
	allowed map[string]struct{}
}

func NewOrigins(origins []string) *Origins {
	o := &Origins{allowed: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
		if origin != "" {
			o.allowed[origin] = struct{}{}
		}
	}
	return o
}

// Listed reports whether origin was configured explicitly.
func (o *Origins) Listed(origin string) bool {
	if o == nil {
		return false
	}
	_, ok := o.allowed[strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")]
	return ok
}

// Allows accepts requests without an Origin header, same-origin requests and
// listed origins. It is suitable as a websocket CheckOrigin.
func (o *Origins) Allows(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	if o.Listed(origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
