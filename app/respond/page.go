package respond

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a window over a result list.
type Page struct {
	Offset int
	Limit  int
}

// PageFromQuery reads offset and limit. A malformed value falls back to the
// default, a negative offset is ignored and limit is kept within [1, MaxLimit].
func PageFromQuery(r *http.Request) Page {
	q := r.URL.Query()
	p := Page{Limit: DefaultLimit}

	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o >= 0 {
		p.Offset = o
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil {
		p.Limit = min(max(l, 1), MaxLimit)
	}
	return p
}

// Bounds returns the slice bounds of the page within n items.
func (p Page) Bounds(n int) (start, end int) {
	start = min(p.Offset, n)
	end = min(start+p.Limit, n)
	return start, end
}
