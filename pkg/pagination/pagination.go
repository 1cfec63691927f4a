package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPage is the first page; pages are 1-based on the wire.
	DefaultPage = 1
	// DefaultPageSize is the standard page size when none is provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any list call can request.
	MaxPageSize = 100
)

// Params holds page/pageSize inputs shared by clients and sandbox controllers.
type Params struct {
	Page     int
	PageSize int
}

// Normalize enforces the default and maximum page values.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the zero-based index of the first row of the page.
func (p Params) Offset() int {
	n := Normalize(p)
	return (n.Page - 1) * n.PageSize
}

// Query renders the params as the page/pageSize query string.
func (p Params) Query() url.Values {
	n := Normalize(p)
	return url.Values{
		"page":     []string{strconv.Itoa(n.Page)},
		"pageSize": []string{strconv.Itoa(n.PageSize)},
	}
}

// FromQuery parses page/pageSize from a request query, ignoring junk values.
func FromQuery(q url.Values) Params {
	page, _ := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	size, _ := strconv.Atoi(strings.TrimSpace(q.Get("pageSize")))
	return Normalize(Params{Page: page, PageSize: size})
}

// Slice returns the window of items selected by p.
func Slice[T any](items []T, p Params) []T {
	n := Normalize(p)
	start := n.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + n.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
