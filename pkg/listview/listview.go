// Package listview derives a filtered, paginated view over an
// in-memory record list. It is the shared engine behind every admin
// listing endpoint: a case-insensitive substring search over an
// allow-list of fields, an optional date-range filter, and page
// slicing with clamped page numbers.
package listview

import (
	"strings"
	"time"

	"github.com/caregrid/admin-api/pkg/datefilter"
	"github.com/caregrid/admin-api/pkg/pagination"
)

// Query describes one view request.
type Query struct {
	Search string
	Date   datefilter.Filter
	Page   pagination.Params
}

// Result is the derived view: the visible page plus totals describing
// the whole filtered set.
type Result[T any] struct {
	Items  []T               `json:"items"`
	Total  int               `json:"total"`
	Page   int               `json:"page"`
	Size   int               `json:"size"`
	Pages  int               `json:"pages"`
	Counts datefilter.Counts `json:"counts"`
}

// MatchesSearch reports whether any of the given field values contains
// term, case-insensitively. An empty term matches everything.
func MatchesSearch(term string, fields []string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Apply filters records by search term and date, then slices out the
// requested page. fields extracts the searchable field values of a
// record; dateOf extracts its date field and may be nil when the
// resource has no date dimension. A page beyond the filtered set is
// clamped to the last page, so the result is never an empty page of a
// non-empty set.
func Apply[T any](records []T, q Query, fields func(T) []string, dateOf func(T) time.Time) Result[T] {
	var filtered []T
	var dates []time.Time

	for _, rec := range records {
		if !MatchesSearch(q.Search, fields(rec)) {
			continue
		}
		var d time.Time
		if dateOf != nil {
			d = dateOf(rec)
			dates = append(dates, d)
		}
		if dateOf != nil && !q.Date.Matches(d) {
			continue
		}
		filtered = append(filtered, rec)
	}

	total := len(filtered)
	p := q.Page
	if p.Size <= 0 {
		p.Size = pagination.DefaultPageSize
	}
	p = p.Clamp(total)
	start, end := p.Bounds(total)

	r := Result[T]{
		Items: filtered[start:end],
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: p.Pages(total),
	}
	if dateOf != nil {
		r.Counts = datefilter.Count(dates, q.Date.Now)
	}
	return r
}
