package request

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aellingwood/pager/internal/pagination"
	"github.com/go-chi/chi/v5"
)

// capture routes target through a chi router mounted at pattern and returns
// the Request seen by the handler.
func capture(t *testing.T, pattern, target string, mutate func(*http.Request)) *Request {
	t.Helper()

	var got *Request
	r := chi.NewRouter()
	r.Get(pattern, func(w http.ResponseWriter, req *http.Request) {
		got = FromHTTP(req, "")
	})

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatalf("route %q did not match %q", pattern, target)
	}
	return got
}

func TestFromHTTP_QueryString(t *testing.T) {
	req := capture(t, "/items", "/items?sort=name&page=3", nil)

	if v, ok := req.QueryParam("page"); !ok || v != "3" {
		t.Errorf("QueryParam(page) = %q, %v; want %q, true", v, ok, "3")
	}
	if _, ok := req.QueryParam("missing"); ok {
		t.Error("QueryParam(missing) should report absence")
	}

	tests := []struct {
		page int
		want string
	}{
		{4, "http://example.com/items?page=4&sort=name"},
		{pagination.None, "http://example.com/items?sort=name"},
	}
	for _, tt := range tests {
		if got := req.QueryURL("page", tt.page); got != tt.want {
			t.Errorf("QueryURL(page, %d) = %q, want %q", tt.page, got, tt.want)
		}
	}

	// QueryURL must not modify the snapshot.
	if v, _ := req.QueryParam("page"); v != "3" {
		t.Errorf("QueryParam(page) after QueryURL = %q, want %q", v, "3")
	}
}

func TestFromHTTP_Route(t *testing.T) {
	req := capture(t, "/items/{category}/page/{page}", "/items/books/page/2?q=go", nil)

	if req.Pattern() != "/items/{category}/page/{page}" {
		t.Errorf("Pattern = %q", req.Pattern())
	}
	if v, ok := req.RouteParam("page"); !ok || v != "2" {
		t.Errorf("RouteParam(page) = %q, %v; want %q, true", v, ok, "2")
	}
	if v, _ := req.RouteParam("category"); v != "books" {
		t.Errorf("RouteParam(category) = %q, want %q", v, "books")
	}

	tests := []struct {
		page int
		want string
	}{
		{5, "http://example.com/items/books/page/5?q=go"},
		{pagination.None, "http://example.com/items/books?q=go"},
	}
	for _, tt := range tests {
		if got := req.RouteURL("page", tt.page); got != tt.want {
			t.Errorf("RouteURL(page, %d) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestFromHTTP_RouteRegexp(t *testing.T) {
	req := capture(t, "/archive/{page:[0-9]+}", "/archive/3", nil)

	if got := req.RouteURL("page", 7); got != "http://example.com/archive/7" {
		t.Errorf("RouteURL = %q", got)
	}
	if got := req.RouteURL("page", pagination.None); got != "http://example.com/archive" {
		t.Errorf("RouteURL(None) = %q", got)
	}
}

func TestFromHTTP_Scheme(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*http.Request)
		want   string
	}{
		{"plain", nil, "http://example.com/items?page=2"},
		{"tls", func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, "https://example.com/items?page=2"},
		{"forwarded", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "HTTPS, http") }, "https://example.com/items?page=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := capture(t, "/items", "/items", tt.mutate)
			if got := req.QueryURL("page", 2); got != tt.want {
				t.Errorf("QueryURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromHTTP_BaseURL(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/items?page=2", nil)
	req := FromHTTP(r, "https://docs.example.org/")

	if got := req.QueryURL("page", 3); got != "https://docs.example.org/items?page=3" {
		t.Errorf("QueryURL = %q", got)
	}
	if req.Pattern() != "" {
		t.Errorf("Pattern without chi = %q, want empty", req.Pattern())
	}
	if got := req.RouteURL("page", 3); got != "https://docs.example.org/items?page=2" {
		t.Errorf("RouteURL without pattern = %q, want current URL", got)
	}
}

func TestParse(t *testing.T) {
	req, err := Parse("https://example.com/shop/page/4?color=red", "/shop/page/{page}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if v, _ := req.RouteParam("page"); v != "4" {
		t.Errorf("RouteParam(page) = %q, want %q", v, "4")
	}
	if v, _ := req.QueryParam("color"); v != "red" {
		t.Errorf("QueryParam(color) = %q, want %q", v, "red")
	}
	if got := req.RouteURL("page", 9); got != "https://example.com/shop/page/9?color=red" {
		t.Errorf("RouteURL = %q", got)
	}
	if got := req.RouteURL("page", pagination.None); got != "https://example.com/shop?color=red" {
		t.Errorf("RouteURL(None) = %q", got)
	}
}

func TestParse_RelativeURL(t *testing.T) {
	req, err := Parse("/list?page=2", "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := req.QueryURL("page", 3); got != "/list?page=3" {
		t.Errorf("QueryURL = %q, want %q", got, "/list?page=3")
	}
	if got := req.QueryURL("page", pagination.None); got != "/list" {
		t.Errorf("QueryURL(None) = %q, want %q", got, "/list")
	}
}

func TestParse_Wildcard(t *testing.T) {
	req, err := Parse("/files/a/b/c", "/files/*")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := req.RouteParam("*"); v != "a/b/c" {
		t.Errorf("RouteParam(*) = %q, want %q", v, "a/b/c")
	}
}

func TestParse_Mismatch(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		pattern string
	}{
		{"literal", "/shop/page/4", "/store/page/{page}"},
		{"too short", "/shop", "/shop/page/{page}"},
		{"too long", "/shop/page/4/extra", "/shop/page/{page}"},
		{"regexp", "/shop/x", "/shop/{page:[0-9]+}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.url, tt.pattern); err == nil {
				t.Errorf("expected error for %q against %q", tt.url, tt.pattern)
			}
		})
	}
}

func TestRouteURL_KeyNotPrecededByLiteral(t *testing.T) {
	req, err := Parse("/blog/2", "/blog/{page}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := req.RouteURL("page", pagination.None); got != "/blog" {
		t.Errorf("RouteURL(None) = %q, want %q", got, "/blog")
	}
	if got := req.RouteURL("page", 3); got != "/blog/3" {
		t.Errorf("RouteURL(3) = %q, want %q", got, "/blog/3")
	}
}

func TestRouteURL_RegexpRejectsPage(t *testing.T) {
	req, err := Parse("/p/12", "/p/{page:[0-9]{2}}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := req.RouteURL("page", 5); got != "#" {
		t.Errorf("RouteURL(5) = %q, want %q", got, "#")
	}
	if got := req.RouteURL("page", 42); got != "/p/42" {
		t.Errorf("RouteURL(42) = %q, want %q", got, "/p/42")
	}
}

func TestPagination_WithRequest(t *testing.T) {
	req := capture(t, "/items", "/items?page=3&tag=go", nil)

	p, err := pagination.New(pagination.Options{Request: req}, map[string]any{"total_items": 95})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.CurrentPage() != 3 {
		t.Errorf("CurrentPage = %d, want 3", p.CurrentPage())
	}
	if got := p.URL(p.NextPage()); got != "http://example.com/items?page=4&tag=go" {
		t.Errorf("URL(next) = %q", got)
	}
	if got := p.URL(p.FirstPage()); got != "http://example.com/items?tag=go" {
		t.Errorf("URL(first) = %q", got)
	}
}

func TestWithPattern(t *testing.T) {
	req := capture(t, "/items", "/items?sort=asc", nil)
	canonical := req.WithPattern("/items/page/{page}")

	if got := canonical.RouteURL("page", 2); got != "http://example.com/items/page/2?sort=asc" {
		t.Errorf("RouteURL(2) = %q", got)
	}
	if got := canonical.RouteURL("page", pagination.None); got != "http://example.com/items?sort=asc" {
		t.Errorf("RouteURL(None) = %q", got)
	}
	if req.Pattern() != "/items" {
		t.Errorf("original pattern changed to %q", req.Pattern())
	}
}
