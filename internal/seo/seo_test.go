package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/aellingwood/pager/internal/pagination"
	"github.com/aellingwood/pager/internal/request"
)

func newPagination(t *testing.T, rawURL, pattern string, overrides map[string]any) *pagination.Pagination {
	t.Helper()
	req, err := request.Parse(rawURL, pattern)
	if err != nil {
		t.Fatalf("request.Parse: %v", err)
	}
	p, err := pagination.New(pagination.Options{Request: req}, overrides)
	if err != nil {
		t.Fatalf("pagination.New: %v", err)
	}
	return p
}

func TestGenerateSitemap(t *testing.T) {
	t.Run("entries with and without lastmod", func(t *testing.T) {
		entries := []SitemapEntry{
			{URL: "https://example.com/items", Lastmod: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
			{URL: "https://example.com/items?page=2"},
		}

		data, err := GenerateSitemap(entries)
		if err != nil {
			t.Fatalf("GenerateSitemap returned error: %v", err)
		}
		result := string(data)

		if !strings.HasPrefix(result, `<?xml version="1.0" encoding="UTF-8"?>`) {
			t.Error("sitemap should start with XML declaration")
		}
		if !strings.Contains(result, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
			t.Error("sitemap should contain sitemaps.org xmlns")
		}
		if !strings.Contains(result, "<loc>https://example.com/items?page=2</loc>") {
			t.Errorf("sitemap should contain the second page, got:\n%s", result)
		}
		if !strings.Contains(result, "<lastmod>2025-06-15</lastmod>") {
			t.Error("sitemap should contain lastmod for first entry")
		}
		if strings.Count(result, "<lastmod>") != 1 {
			t.Error("zero lastmod should be omitted")
		}
	})

	t.Run("empty", func(t *testing.T) {
		data, err := GenerateSitemap(nil)
		if err != nil {
			t.Fatalf("GenerateSitemap returned error: %v", err)
		}
		var set sitemapURLSet
		if err := xml.Unmarshal(data, &set); err != nil {
			t.Fatalf("sitemap is not valid XML: %v", err)
		}
		if len(set.URLs) != 0 {
			t.Errorf("expected no URLs, got %d", len(set.URLs))
		}
	})
}

func TestListingEntries(t *testing.T) {
	lastmod := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	p := newPagination(t, "https://example.com/pages/page/2", "/pages/page/{page}", map[string]any{
		"total_items":  25,
		"current_page": map[string]any{"source": "route", "key": "page"},
	})
	entries := ListingEntries(p, lastmod)

	want := []string{
		"https://example.com/pages",
		"https://example.com/pages/page/2",
		"https://example.com/pages/page/3",
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, e := range entries {
		if e.URL != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.URL, want[i])
		}
		if !e.Lastmod.Equal(lastmod) {
			t.Errorf("entry %d lastmod = %v", i, e.Lastmod)
		}
	}
}

func TestListingEntries_NoRequest(t *testing.T) {
	p, err := pagination.New(pagination.Options{}, map[string]any{"total_items": 25})
	if err != nil {
		t.Fatal(err)
	}
	if entries := ListingEntries(p, time.Time{}); len(entries) != 0 {
		t.Errorf("pages without URLs should be skipped, got %+v", entries)
	}
}

func TestHeadLinks(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		want    []string
		notWant []string
	}{
		{
			name:    "first page",
			rawURL:  "/items?q=a%26b",
			want:    []string{`<link rel="canonical" href="/items?q=a%26b">`, `<link rel="next" href="/items?page=2&amp;q=a%26b">`},
			notWant: []string{`rel="prev"`},
		},
		{
			name:   "middle page",
			rawURL: "/items?page=2",
			want: []string{
				`<link rel="canonical" href="/items?page=2">`,
				`<link rel="prev" href="/items">`,
				`<link rel="next" href="/items?page=3">`,
			},
		},
		{
			name:    "last page",
			rawURL:  "/items?page=3",
			want:    []string{`<link rel="prev" href="/items?page=2">`},
			notWant: []string{`rel="next"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeadLinks(newPagination(t, tt.rawURL, "", map[string]any{"total_items": 30}))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("HeadLinks should contain %q, got:\n%s", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("HeadLinks should not contain %q, got:\n%s", nw, got)
				}
			}
		})
	}
}

func TestHeadLinks_NoURLs(t *testing.T) {
	overrides := map[string]any{
		"total_items":  30,
		"current_page": map[string]any{"source": "session", "key": "page", "page": 2},
	}
	p, err := pagination.New(pagination.Options{}, overrides)
	if err != nil {
		t.Fatal(err)
	}
	if got := HeadLinks(p); got != "" {
		t.Errorf("HeadLinks without a request = %q, want empty", got)
	}

	req, err := request.Parse("/items", "")
	if err != nil {
		t.Fatal(err)
	}
	p, err = pagination.New(pagination.Options{Request: req}, overrides)
	if err != nil {
		t.Fatal(err)
	}
	if got := HeadLinks(p); strings.Contains(got, `href="#"`) {
		t.Errorf("HeadLinks with an unknown page source = %q, want no placeholder links", got)
	}
}

func TestCanonicalURL(t *testing.T) {
	got := CanonicalURL(`https://example.com/?a="b"`)
	want := `<link rel="canonical" href="https://example.com/?a=&#34;b&#34;">`
	if got != want {
		t.Errorf("CanonicalURL = %q, want %q", got, want)
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name     string
		template string
		page     int
		want     string
	}{
		{"first page", "{title} (page {page} of {total})", 1, "Items"},
		{"later page", "{title} (page {page} of {total})", 3, "Items (page 3 of 7)"},
		{"no template", "", 3, "Items"},
		{"title only", "{title}", 2, "Items"},
		{"literal", "Page {page}", 4, "Page 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageTitle("Items", tt.template, tt.page, 7); got != tt.want {
				t.Errorf("PageTitle = %q, want %q", got, tt.want)
			}
		})
	}
}
