// Package request adapts an HTTP request to the page source and URL builder
// used by pagination. Route parameters and the route pattern come from chi.
package request

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/aellingwood/pager/internal/pagination"
	"github.com/go-chi/chi/v5"
)

// Request is a read-only snapshot of the URL a pagination belongs to.
type Request struct {
	base    string
	path    string
	query   url.Values
	pattern string
	params  map[string]string
}

var _ pagination.Request = (*Request)(nil)

// FromHTTP snapshots r. Route parameters and the matched pattern are read
// from the chi routing context when present. baseURL, when set, replaces the
// scheme and host of generated URLs; otherwise they are derived from the
// request, honouring X-Forwarded-Proto.
func FromHTTP(r *http.Request, baseURL string) *Request {
	req := &Request{
		base:   strings.TrimRight(baseURL, "/"),
		path:   r.URL.Path,
		query:  r.URL.Query(),
		params: map[string]string{},
	}
	if req.base == "" && r.Host != "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
		}
		req.base = scheme + "://" + r.Host
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		req.pattern = rctx.RoutePattern()
		for i, k := range rctx.URLParams.Keys {
			if i < len(rctx.URLParams.Values) {
				req.params[k] = rctx.URLParams.Values[i]
			}
		}
	}
	return req
}

// Parse builds a Request from a URL and an optional chi-style route pattern.
// Route parameters are extracted by matching the path against the pattern
// segment by segment; a trailing "*" captures the rest of the path.
func Parse(rawURL, pattern string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", rawURL, err)
	}

	req := &Request{
		path:    u.Path,
		query:   u.Query(),
		pattern: pattern,
		params:  map[string]string{},
	}
	if u.Host != "" {
		scheme := u.Scheme
		if scheme == "" {
			scheme = "http"
		}
		req.base = scheme + "://" + u.Host
	}

	if pattern != "" {
		params, err := matchPattern(pattern, u.Path)
		if err != nil {
			return nil, err
		}
		req.params = params
	}
	return req, nil
}

// WithPattern returns a copy of r that resolves route URLs against pattern
// instead of the matched route. It lets several routes, such as /items and
// /items/page/{page}, share one canonical pattern.
func (r *Request) WithPattern(pattern string) *Request {
	c := *r
	c.pattern = pattern
	return &c
}

// Pattern returns the route pattern, or "" when none is known.
func (r *Request) Pattern() string { return r.pattern }

// QueryParam returns the first value of the named query parameter.
func (r *Request) QueryParam(key string) (string, bool) {
	vs, ok := r.query[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// RouteParam returns the named route parameter.
func (r *Request) RouteParam(key string) (string, bool) {
	v, ok := r.params[key]
	return v, ok
}

// QueryURL returns the current URL with the query parameter key set to page,
// or removed when page is pagination.None. Other parameters are kept; the
// query is re-encoded with sorted keys.
func (r *Request) QueryURL(key string, page int) string {
	q := url.Values{}
	for k, vs := range r.query {
		q[k] = append([]string(nil), vs...)
	}
	if page == pagination.None {
		q.Del(key)
	} else {
		q.Set(key, strconv.Itoa(page))
	}
	return r.build(r.path, q)
}

// RouteURL re-resolves the route pattern with the parameter key set to page.
// Other parameters keep their current values. When page is pagination.None
// the placeholder segment is dropped together with a directly preceding
// literal segment equal to key, so /items/page/{page} becomes /items. The
// current query string is kept. A page rejected by the placeholder's regexp
// yields "#". Without a pattern the current URL is returned.
func (r *Request) RouteURL(key string, page int) string {
	if r.pattern == "" {
		return r.build(r.path, r.query)
	}

	var (
		out     []string
		literal []bool
	)
	for _, seg := range strings.Split(r.pattern, "/") {
		if seg == "*" {
			out = append(out, r.params["*"])
			literal = append(literal, false)
			continue
		}

		phs := placeholders(seg)
		if page == pagination.None && hasName(phs, key) {
			if n := len(out); n > 0 && literal[n-1] && out[n-1] == key {
				out, literal = out[:n-1], literal[:n-1]
			}
			continue
		}

		var b strings.Builder
		last := 0
		for _, ph := range phs {
			b.WriteString(seg[last:ph.start])
			value := r.params[ph.name]
			if ph.name == key {
				value = strconv.Itoa(page)
				if ph.re != nil && !ph.re.MatchString(value) {
					return "#"
				}
			}
			b.WriteString(value)
			last = ph.end
		}
		b.WriteString(seg[last:])
		out = append(out, b.String())
		literal = append(literal, len(phs) == 0)
	}

	path := strings.Join(out, "/")
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.build(path, r.query)
}

func (r *Request) build(path string, q url.Values) string {
	if path == "" {
		path = "/"
	}
	u := url.URL{Path: path, RawQuery: q.Encode()}
	return r.base + u.String()
}

// placeholder is one {name} or {name:regexp} occurrence in a pattern segment.
type placeholder struct {
	name       string
	re         *regexp.Regexp
	start, end int
}

// placeholders scans seg for {name[:regexp]} occurrences. Braces inside the
// regexp are balanced, as in chi.
func placeholders(seg string) []placeholder {
	var phs []placeholder
	for i := 0; i < len(seg); i++ {
		if seg[i] != '{' {
			continue
		}
		depth := 0
		end := -1
		for j := i; j < len(seg); j++ {
			switch seg[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				end = j
				break
			}
		}
		if end < 0 {
			break
		}

		body := seg[i+1 : end]
		ph := placeholder{name: body, start: i, end: end + 1}
		if name, expr, ok := strings.Cut(body, ":"); ok {
			ph.name = name
			if re, err := regexp.Compile("^(?:" + expr + ")$"); err == nil {
				ph.re = re
			}
		}
		phs = append(phs, ph)
		i = end
	}
	return phs
}

func hasName(phs []placeholder, name string) bool {
	for _, ph := range phs {
		if ph.name == name {
			return true
		}
	}
	return false
}

// matchPattern extracts route parameters from path. Each pattern segment
// must either match the path segment literally or be a single placeholder.
func matchPattern(pattern, path string) (map[string]string, error) {
	params := map[string]string{}
	pSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	uSegs := strings.Split(strings.Trim(path, "/"), "/")

	for i, seg := range pSegs {
		if seg == "*" {
			params["*"] = strings.Join(uSegs[min(i, len(uSegs)):], "/")
			return params, nil
		}
		if i >= len(uSegs) {
			return nil, fmt.Errorf("path %q does not match route %q", path, pattern)
		}

		phs := placeholders(seg)
		switch {
		case len(phs) == 0:
			if seg != uSegs[i] {
				return nil, fmt.Errorf("path %q does not match route %q", path, pattern)
			}
		case len(phs) == 1 && phs[0].start == 0 && phs[0].end == len(seg):
			if phs[0].re != nil && !phs[0].re.MatchString(uSegs[i]) {
				return nil, fmt.Errorf("path segment %q does not match {%s}", uSegs[i], phs[0].name)
			}
			params[phs[0].name] = uSegs[i]
		default:
			return nil, fmt.Errorf("route segment %q: only whole-segment placeholders are supported", seg)
		}
	}

	if len(uSegs) != len(pSegs) {
		return nil, fmt.Errorf("path %q does not match route %q", path, pattern)
	}
	return params, nil
}
