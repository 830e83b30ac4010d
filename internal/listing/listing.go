// Package listing pages time-ordered posts, optionally narrowed to one group
// or one author.
//
// The functions here are pure: callers resolve the filter target, fetch or
// hold the source sequence already ordered newest first, and receive a Page
// back. Nothing in this package performs I/O or keeps state.
package listing

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is used whenever a caller passes a non-positive size.
const DefaultPageSize = 10

// Record is the view of a post the listing needs for filtering.
type Record interface {
	AuthorKey() uint
	GroupKey() (uint, bool)
}

// Page is one bounded slice of a filtered sequence plus its metadata.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Number     int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrevious reports whether a page precedes this one.
func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// NextNumber returns the following page number, or 0 when there is none.
func (p Page[T]) NextNumber() int {
	if !p.HasNext() {
		return 0
	}
	return p.Number + 1
}

// PreviousNumber returns the preceding page number, or 0 when there is none.
func (p Page[T]) PreviousNumber() int {
	if !p.HasPrevious() {
		return 0
	}
	return p.Number - 1
}

// Bounds describes where a requested page falls inside a sequence of Total items.
type Bounds struct {
	Number     int
	Size       int
	TotalPages int
	Offset     int
	Limit      int
}

// Window clamps number into [1, pages] and returns the slice bounds for it.
// An empty sequence has zero pages; its window is page 0 with no items.
// Numbers below 1 and above the last page both land on the last page.
func Window(total int64, number, size int) Bounds {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return Bounds{Size: size}
	}

	pages := int((total + int64(size) - 1) / int64(size))
	if number < 1 || number > pages {
		number = pages
	}

	offset := (number - 1) * size
	limit := size
	if rest := int(total) - offset; rest < limit {
		limit = rest
	}

	return Bounds{
		Number:     number,
		Size:       size,
		TotalPages: pages,
		Offset:     offset,
		Limit:      limit,
	}
}

// Paginate filters source with f and returns the requested page.
// source must already be ordered newest first; that order is preserved.
// The returned Items never alias source.
func Paginate[T Record](source []T, f Filter, number, size int) Page[T] {
	matched := source
	if !f.IsZero() {
		matched = make([]T, 0, len(source))
		for _, r := range source {
			if f.Matches(r) {
				matched = append(matched, r)
			}
		}
	}

	b := Window(int64(len(matched)), number, size)
	items := make([]T, b.Limit)
	copy(items, matched[b.Offset:b.Offset+b.Limit])

	return NewPage(items, b, int64(len(matched)))
}

// NewPage assembles a Page from items already cut to b.
func NewPage[T any](items []T, b Bounds, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Number:     b.Number,
		PageSize:   b.Size,
		TotalCount: total,
		TotalPages: b.TotalPages,
	}
}

// ParseNumber reads a page number from a query value.
// Missing or non-numeric input means the first page. Integers too large
// for int come back as math.MaxInt or -1 so that Window still clamps them.
func ParseNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return -1
		}
		return math.MaxInt
	}
	if err != nil {
		return 1
	}
	return n
}
