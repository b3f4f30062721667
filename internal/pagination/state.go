package pagination

import (
	"strconv"
	"strings"

	"github.com/aellingwood/pager/internal/config"
)

// state is the page state derived from a configuration.
type state struct {
	currentPage      int
	totalItems       int
	itemsPerPage     int
	totalPages       int
	currentFirstItem int
	currentLastItem  int
	previousPage     int
	nextPage         int
	firstPage        int
	lastPage         int
	offset           int
}

// rawPage returns the unclamped current page: the explicit page when one is
// configured, otherwise the request parameter named by the page key. Absent
// or non-numeric parameters count as page 1.
func (p *Pagination) rawPage(s *config.Settings) int {
	if s.CurrentPage.Page != 0 {
		return s.CurrentPage.Page
	}
	if p.opts.Request == nil {
		return 1
	}

	var (
		value string
		ok    bool
	)
	switch s.CurrentPage.Source {
	case config.SourceQueryString:
		value, ok = p.opts.Request.QueryParam(s.CurrentPage.Key)
	case config.SourceRoute:
		value, ok = p.opts.Request.RouteParam(s.CurrentPage.Key)
	}
	if !ok {
		return 1
	}
	return parsePage(value)
}

// parsePage converts a request parameter to a page number, falling back to 1.
func parsePage(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 1
	}
	return n
}

// derive computes the page state. It only uses integer arithmetic.
func derive(s *config.Settings, raw int) state {
	var st state

	st.totalItems = max(0, s.TotalItems)
	st.itemsPerPage = max(1, s.ItemsPerPage)
	st.totalPages = (st.totalItems + st.itemsPerPage - 1) / st.itemsPerPage
	st.currentPage = min(max(1, raw), max(1, st.totalPages))
	st.currentFirstItem = min((st.currentPage-1)*st.itemsPerPage+1, st.totalItems)
	st.currentLastItem = min(st.currentFirstItem+st.itemsPerPage-1, st.totalItems)

	if st.currentPage > 1 {
		st.previousPage = st.currentPage - 1
	}
	if st.currentPage < st.totalPages {
		st.nextPage = st.currentPage + 1
	}
	if st.currentPage != 1 {
		st.firstPage = 1
	}
	if st.currentPage < st.totalPages {
		st.lastPage = st.totalPages
	}

	st.offset = (st.currentPage - 1) * st.itemsPerPage
	return st
}
