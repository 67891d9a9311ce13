package utils

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Pagination carries list metadata plus links that keep the rest of the query string.
type Pagination struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"totalPages"`
	PrevURL    string `json:"-"`
	NextURL    string `json:"-"`
}

// ParsePage reads page and limit from a query, clamping both to sane values.
func ParsePage(q url.Values) (page, limit int) {
	page = StringToInt(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit = StringToInt(q.Get("limit"))
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPagination(page, limit int, total int64, current *url.URL) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	p.TotalPages = int(math.Ceil(float64(total) / float64(limit)))
	if p.TotalPages == 0 {
		p.TotalPages = 1
	}
	if current == nil {
		return p
	}
	if page > 1 {
		p.PrevURL = pageURL(current, page-1)
	}
	if page < p.TotalPages {
		p.NextURL = pageURL(current, page+1)
	}
	return p
}

func pageURL(current *url.URL, page int) string {
	q := current.Query()
	q.Set("page", strconv.Itoa(page))
	u := url.URL{Path: current.Path, RawQuery: q.Encode()}
	return u.String()
}
