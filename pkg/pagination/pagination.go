package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params holds pagination parameters extracted from a request. Pages
// are 1-based; Size is clamped to [1, MaxPageSize].
type Params struct {
	Page int
	Size int
}

// FromContext extracts pagination parameters from the echo context.
// Both page/size and limit/offset spellings are accepted; limit/offset
// is converted to the nearest whole page.
func FromContext(c echo.Context) Params {
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size, _ = strconv.Atoi(c.QueryParam("limit"))
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		if offset, _ := strconv.Atoi(c.QueryParam("offset")); offset > 0 {
			page = offset/size + 1
		}
	}
	if page <= 0 {
		page = 1
	}

	return Params{Page: page, Size: size}
}

// Offset returns the number of records preceding the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// Limit returns the page size.
func (p Params) Limit() int {
	return p.Size
}

// Pages returns how many pages the given total occupies, at least 1.
func (p Params) Pages(total int) int {
	if total <= 0 {
		return 1
	}
	pages := total / p.Size
	if total%p.Size != 0 {
		pages++
	}
	return pages
}

// Clamp returns a copy of p with Page pulled back into the valid range
// for the given total. A page past the end lands on the last page.
func (p Params) Clamp(total int) Params {
	last := p.Pages(total)
	if p.Page > last {
		p.Page = last
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// Bounds returns the [start, end) slice indexes for the current page
// of a list with the given length. Safe for any page value.
func (p Params) Bounds(length int) (int, int) {
	start := p.Offset()
	if start > length {
		start = length
	}
	end := start + p.Size
	if end > length {
		end = length
	}
	return start, end
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset()+p.Size < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Page > 1
}

// Response wraps a paginated API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Size    int         `json:"size"`
	Pages   int         `json:"pages"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Page:    p.Page,
		Size:    p.Size,
		Pages:   p.Pages(total),
		HasMore: p.HasNext(total),
	}
}
