package pagination

import (
	"math"
	"strconv"

	"github.com/spf13/cast"
)

// Link is one entry of a truncated page list. Gap entries stand for a run of
// hidden pages and carry no number.
type Link struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// ShowPageLink reports whether the link to page n belongs in a truncated
// page list. Every page is shown when there are at most count_page_show_all
// pages. Otherwise the current page, the first and last count_page_start
// pages, and the pages strictly within count_page_padding of the current page
// are shown. count_page_end does not take part.
func (p *Pagination) ShowPageLink(n int) bool {
	s := p.settings
	switch {
	case p.state.totalPages <= s.CountPageShowAll:
		return true
	case n == p.state.currentPage:
		return true
	case n <= s.CountPageStart || n > p.state.totalPages-s.CountPageStart:
		return true
	case n < p.state.currentPage+s.CountPagePadding && n > p.state.currentPage-s.CountPagePadding:
		return true
	}
	return false
}

// Links returns the truncated page list: one Link per visible page and a
// single gap Link for every run of hidden pages.
func (p *Pagination) Links() []Link {
	var links []Link
	gap := false
	for n := 1; n <= p.state.totalPages; n++ {
		if !p.ShowPageLink(n) {
			if !gap {
				links = append(links, Link{Gap: true})
				gap = true
			}
			continue
		}
		gap = false
		links = append(links, Link{
			Number:  n,
			URL:     p.URL(n),
			Current: n == p.state.currentPage,
		})
	}
	return links
}

// IsValidPage reports whether page names an existing page. Integers,
// integral floats, and strings made only of ASCII digits are accepted; signs,
// fractions, and other types are not.
func (p *Pagination) IsValidPage(page any) bool {
	n, ok := pageNumber(page)
	return ok && n > 0 && n <= int64(p.state.totalPages)
}

func pageNumber(v any) (int64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		if t == "" {
			return 0, false
		}
		for i := 0; i < len(t); i++ {
			if t[i] < '0' || t[i] > '9' {
				return 0, false
			}
		}
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	case float32:
		if f := float64(t); f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, false
		}
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, false
		}
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
