package template

import (
	"fmt"
	"html/template"

	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FuncMap returns the custom template functions available to all views.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// String functions
		"safeHTML": safeHTML,
		"number":   number,

		// Arithmetic
		"add": add,
		"sub": sub,
		"seq": seq,

		// Helpers
		"dict":  dict,
		"slice": sliceHelper,

		// Partial helper; the Engine replaces it with one bound to its templates.
		"partial": func(name string, ctx any) template.HTML {
			return ""
		},
	}
}

// safeHTML marks a string as safe HTML so Go templates will not escape it.
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

// number formats n with the digit grouping of the given BCP 47 language tag.
// Unknown tags fall back to English.
func number(lang string, n any) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag).Sprintf("%d", cast.ToInt64(n))
}

func add(a, b any) int64 {
	return cast.ToInt64(a) + cast.ToInt64(b)
}

func sub(a, b any) int64 {
	return cast.ToInt64(a) - cast.ToInt64(b)
}

// seq returns the integers from first to last inclusive, or nil when last is
// smaller than first.
func seq(first, last int) []int {
	if last < first {
		return nil
	}
	out := make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		out = append(out, i)
	}
	return out
}

// --- Helpers ---

// dict creates a map[string]any from alternating key-value pairs.
// Example usage in templates: {{ dict "key1" "val1" "key2" "val2" }}
func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key at position %d is not a string", i)
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// sliceHelper creates a slice from its arguments.
// Registered as "slice" in the template func map.
func sliceHelper(values ...any) []any {
	return values
}
