package template

import (
	"html/template"

	"github.com/aellingwood/pager/internal/pagination"
)

var _ pagination.Renderer = (*Engine)(nil)

// PageContext is the data passed to page views such as pages/list as ".".
type PageContext struct {
	Title    string
	Language string
	// Head holds extra tags for <head>, such as canonical and prev/next links.
	Head   template.HTML
	Items  []string
	Offset int // items skipped before the first entry of Items

	// Nonce authorises the page's inline scripts under its CSP.
	Nonce string
	// LiveReload adds the script that reloads the page when the server
	// reports a change.
	LiveReload bool

	// Pagination is the rendered pagination view, empty when hidden.
	Pagination template.HTML
	View       *pagination.View
}
