package pagination

import "github.com/aellingwood/pager/internal/config"

// URL returns the URL of the given page. Pages below 1 are treated as page 1.
// Page 1 carries no page parameter unless first_page_in_url is set. When no
// request is attached or the page source is unknown, URL returns "#".
func (p *Pagination) URL(page int) string {
	page = max(1, page)
	if page == 1 && !p.settings.FirstPageInURL {
		page = None
	}

	if p.opts.Request == nil {
		return "#"
	}

	key := p.settings.CurrentPage.Key
	switch p.settings.CurrentPage.Source {
	case config.SourceQueryString:
		return p.opts.Request.QueryURL(key, page)
	case config.SourceRoute:
		return p.opts.Request.RouteURL(key, page)
	}
	return "#"
}
