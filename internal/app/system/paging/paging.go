// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// Window is a limit/offset page request. Zero Limit means "use the default".
type Window struct {
	Limit  int
	Offset int
}

// Parse reads ?limit= and ?offset= from r. Missing or malformed values
// are zero.
func Parse(r *http.Request) Window {
	return Window{Limit: intParam(r, "limit"), Offset: intParam(r, "offset")}
}

func intParam(r *http.Request, key string) int {
	s := query.Get(r, key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Clamp applies def when Limit is not positive, caps Limit at max and
// floors Offset at zero.
func (w Window) Clamp(def, max int) Window {
	if w.Limit <= 0 {
		w.Limit = def
	}
	if max > 0 && w.Limit > max {
		w.Limit = max
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
	return w
}

// Slice returns the part of rows inside w. A Limit of zero keeps
// everything after Offset. The result is never nil.
func Slice[T any](rows []T, w Window) []T {
	if w.Offset < 0 {
		w.Offset = 0
	}
	if w.Offset >= len(rows) {
		return []T{}
	}
	rows = rows[w.Offset:]
	if w.Limit > 0 && w.Limit < len(rows) {
		rows = rows[:w.Limit]
	}
	return rows
}
