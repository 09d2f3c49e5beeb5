package models

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageParams carries paging/filtering/sorting of a list request.
type PageParams struct {
	Page     int    // 1-based
	Size     int    // items per page
	Search   string // substring filter, OR-combined over entity fields
	SortBy   string // entity-specific column key; unknown falls back to id
	SortDesc bool
}

// Normalize clamps paging values into the allowed range.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageParams) Offset() int { return (p.Page - 1) * p.Size }

// Values renders the parameters as an explicit query string.
// Link building works off this typed structure, no reflection.
func (p PageParams) Values() url.Values {
	v := url.Values{}
	v.Set("page_number", strconv.Itoa(p.Page))
	v.Set("page_size", strconv.Itoa(p.Size))
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
	}
	if p.SortDesc {
		v.Set("sort_desc", "true")
	}
	return v
}

// Link is a navigational hypermedia reference.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// PagedResult is one page of a collection plus its page descriptor.
type PagedResult[T any] struct {
	Data         []T    `json:"data"`
	PageNumber   int    `json:"page_number"`
	PageSize     int    `json:"page_size"`
	TotalRecords int64  `json:"total_records"`
	TotalPages   int    `json:"total_pages"`
	HasPrevious  bool   `json:"has_previous"`
	HasNext      bool   `json:"has_next"`
	Links        []Link `json:"links,omitempty"`
}

// NewPagedResult computes the page descriptor. Holds for any
// non-negative input: zero records means zero pages and no next page.
func NewPagedResult[T any](data []T, page, size int, total int64) PagedResult[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PagedResult[T]{
		Data:         data,
		PageNumber:   page,
		PageSize:     size,
		TotalRecords: total,
		TotalPages:   totalPages,
		HasPrevious:  page > 1,
		HasNext:      page < totalPages,
	}
}

// WithLinks attaches self/first/last/prev/next links for basePath.
func (r PagedResult[T]) WithLinks(basePath string, p PageParams) PagedResult[T] {
	href := func(page int) string {
		q := p
		q.Page = page
		return basePath + "?" + q.Values().Encode()
	}
	links := []Link{{Href: href(r.PageNumber), Rel: "self", Method: "GET"}}
	if r.TotalPages > 0 {
		links = append(links,
			Link{Href: href(1), Rel: "first", Method: "GET"},
			Link{Href: href(r.TotalPages), Rel: "last", Method: "GET"},
		)
	}
	if r.HasPrevious {
		links = append(links, Link{Href: href(r.PageNumber - 1), Rel: "prev", Method: "GET"})
	}
	if r.HasNext {
		links = append(links, Link{Href: href(r.PageNumber + 1), Rel: "next", Method: "GET"})
	}
	r.Links = links
	return r
}
