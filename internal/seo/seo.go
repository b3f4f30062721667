// Package seo produces head tags and sitemaps for paginated listings.
package seo

import (
	"encoding/xml"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/aellingwood/pager/internal/pagination"
)

// SitemapEntry represents a page in the sitemap.
type SitemapEntry struct {
	URL     string
	Lastmod time.Time
}

// sitemapURLSet is the root element of a sitemap XML document.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapURL represents a single URL entry in the sitemap.
type sitemapURL struct {
	Loc     string `xml:"loc"`
	Lastmod string `xml:"lastmod,omitempty"`
}

// GenerateSitemap produces an XML sitemap per the sitemaps.org protocol.
// <lastmod> is written as a date and only for non-zero times.
func GenerateSitemap(entries []SitemapEntry) ([]byte, error) {
	urlset := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(entries)),
	}

	for _, e := range entries {
		u := sitemapURL{Loc: e.URL}
		if !e.Lastmod.IsZero() {
			u.Lastmod = e.Lastmod.Format("2006-01-02")
		}
		urlset.URLs = append(urlset.URLs, u)
	}

	output, err := xml.MarshalIndent(urlset, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("seo: marshaling sitemap: %w", err)
	}

	result := []byte(xml.Header)
	result = append(result, output...)
	result = append(result, '\n')
	return result, nil
}

// ListingEntries returns one sitemap entry per page of p, in page order.
// Pages whose URL cannot be built are skipped.
func ListingEntries(p *pagination.Pagination, lastmod time.Time) []SitemapEntry {
	entries := make([]SitemapEntry, 0, p.TotalPages())
	for n := 1; n <= p.TotalPages(); n++ {
		u := p.URL(n)
		if u == "#" {
			continue
		}
		entries = append(entries, SitemapEntry{URL: u, Lastmod: lastmod})
	}
	return entries
}

// HeadLinks returns the <link> tags that describe where the current page
// sits in the listing: canonical, and prev and next when those pages exist.
// Pages without a URL are left out.
func HeadLinks(p *pagination.Pagination) string {
	var tags []string

	if u := p.URL(p.CurrentPage()); u != "#" {
		tags = append(tags, CanonicalURL(u))
	}
	if p.HasPreviousPage() {
		if u := p.URL(p.PreviousPage()); u != "#" {
			tags = append(tags, linkTag("prev", u))
		}
	}
	if p.HasNextPage() {
		if u := p.URL(p.NextPage()); u != "#" {
			tags = append(tags, linkTag("next", u))
		}
	}
	return strings.Join(tags, "\n")
}

// CanonicalURL returns a <link rel="canonical"> tag for the given permalink.
func CanonicalURL(permalink string) string {
	return linkTag("canonical", permalink)
}

func linkTag(rel, href string) string {
	return fmt.Sprintf(`<link rel="%s" href="%s">`, rel, html.EscapeString(href))
}

// PageTitle expands a title template for pages after the first. The
// template may reference {title}, {page} and {total}. Page 1 and an empty
// template yield the bare title.
func PageTitle(title, template string, page, total int) string {
	if template == "" || page <= 1 {
		return title
	}
	return strings.NewReplacer(
		"{title}", title,
		"{page}", strconv.Itoa(page),
		"{total}", strconv.Itoa(total),
	).Replace(template)
}
