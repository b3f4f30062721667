// Package security provides Content Security Policy (CSP) generation,
// nonce-based script authorization, and related security header helpers for
// pages served by pager.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// GenerateNonce produces a 16-byte cryptographically random nonce, returned
// as unpadded base64url so that it needs no escaping in HTML attributes.
func GenerateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CSPPolicy holds the directives for a Content-Security-Policy header.
type CSPPolicy struct {
	DefaultSrc []string
	ScriptSrc  []string
	StyleSrc   []string
	ImgSrc     []string
	ConnectSrc []string
	BaseURI    []string
	FormAction []string
	FrameAnc   []string
}

// String serializes the policy to a CSP header value.
func (p *CSPPolicy) String() string {
	// Build directive strings, skipping empty directives.
	var directives []string
	add := func(name string, values []string) {
		if len(values) > 0 {
			directives = append(directives, name+" "+strings.Join(values, " "))
		}
	}
	add("default-src", p.DefaultSrc)
	add("script-src", p.ScriptSrc)
	add("style-src", p.StyleSrc)
	add("img-src", p.ImgSrc)
	add("connect-src", p.ConnectSrc)
	add("base-uri", p.BaseURI)
	add("form-action", p.FormAction)
	add("frame-ancestors", p.FrameAnc)
	return strings.Join(directives, "; ")
}

// PagePolicy returns the CSP for a rendered listing page. The nonce secures
// inline scripts such as the live reload client. When wsOrigin is set (for
// example "ws://localhost:8080") WebSocket connections to it are allowed.
func PagePolicy(nonce, wsOrigin string) *CSPPolicy {
	p := &CSPPolicy{
		DefaultSrc: []string{"'none'"},
		ScriptSrc:  []string{"'self'", fmt.Sprintf("'nonce-%s'", nonce)},
		StyleSrc:   []string{"'self'", "'unsafe-inline'"},
		ImgSrc:     []string{"'self'", "data:"},
		ConnectSrc: []string{"'self'"},
		BaseURI:    []string{"'self'"},
		FormAction: []string{"'self'"},
		FrameAnc:   []string{"'none'"},
	}
	if wsOrigin != "" {
		p.ConnectSrc = append(p.ConnectSrc, wsOrigin)
	}
	return p
}

// SetHeaders writes the security headers for an HTML response. csp may be
// nil, in which case no Content-Security-Policy header is set.
func SetHeaders(h http.Header, csp *CSPPolicy) {
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
	if csp != nil {
		h.Set("Content-Security-Policy", csp.String())
	}
}
