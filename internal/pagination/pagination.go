// Package pagination computes page state for a result set of known size:
// the current page, item ranges, neighbouring pages, which page links to
// show in a truncated list, and the URL of each page.
package pagination

import (
	"github.com/aellingwood/pager/internal/config"
)

// None marks an absent neighbouring page (no previous page on page 1, and so on).
const None = 0

// PageSource exposes the raw current page parameter of a request.
type PageSource interface {
	// QueryParam returns the named query string value.
	QueryParam(key string) (string, bool)
	// RouteParam returns the named route parameter.
	RouteParam(key string) (string, bool)
}

// URLBuilder serialises the current request with a page parameter. A page of
// None removes the parameter instead of serialising an empty value.
type URLBuilder interface {
	QueryURL(key string, page int) string
	RouteURL(key string, page int) string
}

// Request combines the page source and the URL builder of one request.
type Request interface {
	PageSource
	URLBuilder
}

// Options holds the collaborators of a Pagination. All fields are optional.
type Options struct {
	Request  Request
	Groups   config.Source
	Renderer Renderer
}

// Pagination holds merged configuration and the page state derived from it.
// A Pagination belongs to a single request and is not safe for concurrent use.
type Pagination struct {
	opts     Options
	values   map[string]any
	settings *config.Settings
	state    state
	computed bool
}

// New creates a Pagination. The built-in defaults are overlaid with the
// "default" group of opts.Groups, when it exists, and then with overrides.
func New(opts Options, overrides map[string]any) (*Pagination, error) {
	values := config.Defaults()
	if opts.Groups != nil {
		if group, err := config.LoadGroup(opts.Groups, config.DefaultGroup); err == nil {
			values = config.Merge(group, values)
		}
	}

	p := &Pagination{
		opts:   opts,
		values: values,
	}
	if _, err := p.Setup(overrides); err != nil {
		return nil, err
	}
	return p, nil
}

// Setup merges overrides into the configuration and recalculates the page
// state when needed. If overrides names a group, the group is resolved and
// merged beneath overrides. Keys present in overrides replace existing
// values. State is recalculated on the first call and whenever overrides
// touch current_page, total_items, or items_per_page.
//
// On error the Pagination is left unchanged.
func (p *Pagination) Setup(overrides map[string]any) (*Pagination, error) {
	incoming := config.Clone(overrides)
	if incoming == nil {
		incoming = map[string]any{}
	}

	if name, ok := incoming[config.KeyGroup].(string); ok && name != "" {
		group, err := config.LoadGroup(p.opts.Groups, name)
		if err != nil {
			return p, err
		}
		config.Merge(incoming, group)
	}
	delete(incoming, config.KeyGroup)

	values := replace(config.Clone(p.values), incoming)
	settings, err := config.Decode(values)
	if err != nil {
		return p, err
	}

	p.values = values
	p.settings = settings

	if !p.computed || touchesState(incoming) {
		p.state = derive(settings, p.rawPage(settings))
		p.computed = true
	}
	return p, nil
}

// Set updates a single option. It is shorthand for Setup with a one-key map.
func (p *Pagination) Set(key string, value any) (*Pagination, error) {
	return p.Setup(map[string]any{key: value})
}

// replace writes every key of src into dst, overwriting existing values.
// Nested maps such as current_page are replaced as a whole.
func replace(dst, src map[string]any) map[string]any {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func touchesState(overrides map[string]any) bool {
	for _, key := range []string{config.KeyCurrentPage, config.KeyTotalItems, config.KeyItemsPerPage} {
		if v, ok := overrides[key]; ok && v != nil {
			return true
		}
	}
	return false
}

// Settings returns the typed view of the merged configuration.
func (p *Pagination) Settings() config.Settings {
	return *p.settings
}

// Values returns a copy of the merged configuration map.
func (p *Pagination) Values() map[string]any {
	return config.Clone(p.values)
}

// CurrentPage returns the clamped current page number.
func (p *Pagination) CurrentPage() int { return p.state.currentPage }

// TotalItems returns the total item count, never negative.
func (p *Pagination) TotalItems() int { return p.state.totalItems }

// ItemsPerPage returns the page size, at least 1.
func (p *Pagination) ItemsPerPage() int { return p.state.itemsPerPage }

// TotalPages returns the number of pages.
func (p *Pagination) TotalPages() int { return p.state.totalPages }

// CurrentFirstItem returns the 1-based index of the first item on the current page.
func (p *Pagination) CurrentFirstItem() int { return p.state.currentFirstItem }

// CurrentLastItem returns the 1-based index of the last item on the current page.
func (p *Pagination) CurrentLastItem() int { return p.state.currentLastItem }

// PreviousPage returns the previous page number or None.
func (p *Pagination) PreviousPage() int { return p.state.previousPage }

// NextPage returns the next page number or None.
func (p *Pagination) NextPage() int { return p.state.nextPage }

// FirstPage returns 1, or None when the current page is the first one.
func (p *Pagination) FirstPage() int { return p.state.firstPage }

// LastPage returns the last page number, or None when the current page is the last one.
func (p *Pagination) LastPage() int { return p.state.lastPage }

// Offset returns the number of items to skip to reach the current page.
func (p *Pagination) Offset() int { return p.state.offset }

// HasPreviousPage reports whether a page precedes the current one.
func (p *Pagination) HasPreviousPage() bool { return p.state.previousPage != None }

// HasNextPage reports whether a page follows the current one.
func (p *Pagination) HasNextPage() bool { return p.state.nextPage != None }
