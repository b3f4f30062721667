package pagination

import (
	"errors"
	"fmt"
)

// ErrNoRenderer is returned by Render when no Renderer is attached.
var ErrNoRenderer = errors.New("pagination: no renderer configured")

// Renderer turns a named view and its data into markup.
type Renderer interface {
	Render(view string, data any) (string, error)
}

// View is the data handed to a Renderer.
type View struct {
	CurrentPage      int
	TotalItems       int
	ItemsPerPage     int
	TotalPages       int
	CurrentFirstItem int
	CurrentLastItem  int
	PreviousPage     int
	NextPage         int
	FirstPage        int
	LastPage         int
	Offset           int

	CountPageShowAll   int
	CountPageStart     int
	CountPageEnd       int
	CountStartEndPages int
	CountPagePadding   int
	Language           string

	Links []Link
	Page  *Pagination
}

// View collects the derived state and display settings for a Renderer.
func (p *Pagination) View() *View {
	s := p.settings
	return &View{
		CurrentPage:        p.state.currentPage,
		TotalItems:         p.state.totalItems,
		ItemsPerPage:       p.state.itemsPerPage,
		TotalPages:         p.state.totalPages,
		CurrentFirstItem:   p.state.currentFirstItem,
		CurrentLastItem:    p.state.currentLastItem,
		PreviousPage:       p.state.previousPage,
		NextPage:           p.state.nextPage,
		FirstPage:          p.state.firstPage,
		LastPage:           p.state.lastPage,
		Offset:             p.state.offset,
		CountPageShowAll:   s.CountPageShowAll,
		CountPageStart:     s.CountPageStart,
		CountPageEnd:       s.CountPageEnd,
		CountStartEndPages: s.CountStartEndPages,
		CountPagePadding:   s.CountPagePadding,
		Language:           s.Language,
		Links:              p.Links(),
		Page:               p,
	}
}

// Hidden reports whether output is suppressed because auto_hide is set and
// there is at most one page.
func (p *Pagination) Hidden() bool {
	return p.settings.AutoHide && p.state.totalPages <= 1
}

// Render renders the pagination with the named view, or the configured view
// when view is empty. Hidden paginations render as the empty string.
func (p *Pagination) Render(view string) (string, error) {
	if p.Hidden() {
		return "", nil
	}
	if p.opts.Renderer == nil {
		return "", ErrNoRenderer
	}
	if view == "" {
		view = p.settings.View
	}

	out, err := p.opts.Renderer.Render(view, p.View())
	if err != nil {
		return "", fmt.Errorf("rendering pagination view %q: %w", view, err)
	}
	return out, nil
}

// String renders the configured view. Errors render as the empty string.
func (p *Pagination) String() string {
	out, err := p.Render("")
	if err != nil {
		return ""
	}
	return out
}
