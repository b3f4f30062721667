// Package config handles loading, merging, and decoding pagination option
// groups for pager.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Page sources understood by the current_page option.
const (
	SourceQueryString = "query_string"
	SourceRoute       = "route"
)

// Option keys. Keys are snake_case so that they survive viper's key
// lower-casing unchanged.
const (
	KeyGroup              = "group"
	KeyCurrentPage        = "current_page"
	KeyTotalItems         = "total_items"
	KeyItemsPerPage       = "items_per_page"
	KeyView               = "view"
	KeyAutoHide           = "auto_hide"
	KeyFirstPageInURL     = "first_page_in_url"
	KeyCountPageShowAll   = "count_page_show_all"
	KeyCountPageStart     = "count_page_start"
	KeyCountPageEnd       = "count_page_end"
	KeyCountStartEndPages = "count_start_end_pages"
	KeyCountPagePadding   = "count_page_padding"
	KeyLanguage           = "language"
)

// DefaultGroup is the group overlaid on the built-in defaults when a
// pagination is constructed.
const DefaultGroup = "default"

// CurrentPage describes where the current page number is read from.
type CurrentPage struct {
	Source string `mapstructure:"source" yaml:"source" toml:"source"`
	Key    string `mapstructure:"key"    yaml:"key"    toml:"key"`
	// Page, when non-zero, overrides whatever the source holds.
	Page int `mapstructure:"page" yaml:"page,omitempty" toml:"page,omitempty"`
}

// Settings is the typed form of a merged option map.
type Settings struct {
	CurrentPage        CurrentPage `mapstructure:"current_page"          yaml:"current_page"          toml:"current_page"`
	TotalItems         int         `mapstructure:"total_items"           yaml:"total_items"           toml:"total_items"`
	ItemsPerPage       int         `mapstructure:"items_per_page"        yaml:"items_per_page"        toml:"items_per_page"`
	View               string      `mapstructure:"view"                  yaml:"view"                  toml:"view"`
	AutoHide           bool        `mapstructure:"auto_hide"             yaml:"auto_hide"             toml:"auto_hide"`
	FirstPageInURL     bool        `mapstructure:"first_page_in_url"     yaml:"first_page_in_url"     toml:"first_page_in_url"`
	CountPageShowAll   int         `mapstructure:"count_page_show_all"   yaml:"count_page_show_all"   toml:"count_page_show_all"`
	CountPageStart     int         `mapstructure:"count_page_start"      yaml:"count_page_start"      toml:"count_page_start"`
	CountPageEnd       int         `mapstructure:"count_page_end"        yaml:"count_page_end"        toml:"count_page_end"`
	CountStartEndPages int         `mapstructure:"count_start_end_pages" yaml:"count_start_end_pages" toml:"count_start_end_pages"`
	CountPagePadding   int         `mapstructure:"count_page_padding"    yaml:"count_page_padding"    toml:"count_page_padding"`
	Language           string      `mapstructure:"language"              yaml:"language"              toml:"language"`
}

// Defaults returns a fresh option map holding the built-in defaults.
func Defaults() map[string]any {
	return map[string]any{
		KeyCurrentPage: map[string]any{
			"source": SourceQueryString,
			"key":    "page",
		},
		KeyTotalItems:         0,
		KeyItemsPerPage:       10,
		KeyView:               "pagination/basic",
		KeyAutoHide:           true,
		KeyFirstPageInURL:     false,
		KeyCountPageShowAll:   8,
		KeyCountPageStart:     2,
		KeyCountPageEnd:       2,
		KeyCountStartEndPages: 1,
		KeyCountPagePadding:   4,
		KeyLanguage:           "en",
	}
}

// Default returns Settings populated with the built-in defaults.
func Default() *Settings {
	s, err := Decode(Defaults())
	if err != nil {
		// The defaults table is static; failing to decode it is a programming error.
		panic(err)
	}
	return s
}

// Decode converts a merged option map into Settings. Input is weakly typed,
// so "10" and 10.0 both decode to 10. Unknown keys are ignored.
func Decode(values map[string]any) (*Settings, error) {
	s := &Settings{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(values); err != nil {
		return nil, fmt.Errorf("decoding pagination config: %w", err)
	}
	return s, nil
}

// Validate checks the Settings for common errors.
// It returns a descriptive error if:
//   - the page source is neither query_string nor route
//   - the page key is empty
//   - any count_* value is negative
func (s *Settings) Validate() error {
	switch s.CurrentPage.Source {
	case SourceQueryString, SourceRoute:
	default:
		return fmt.Errorf("config: current_page.source must be %q or %q (got %q)",
			SourceQueryString, SourceRoute, s.CurrentPage.Source)
	}

	if strings.TrimSpace(s.CurrentPage.Key) == "" {
		return fmt.Errorf("config: current_page.key is required")
	}

	counts := []struct {
		name  string
		value int
	}{
		{KeyCountPageShowAll, s.CountPageShowAll},
		{KeyCountPageStart, s.CountPageStart},
		{KeyCountPageEnd, s.CountPageEnd},
		{KeyCountStartEndPages, s.CountStartEndPages},
		{KeyCountPagePadding, s.CountPagePadding},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("config: %s must not be negative (got %d)", c.name, c.value)
		}
	}

	return nil
}
