package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// FileSource is a Source backed by a YAML, TOML, or JSON file whose
// top-level keys are group names. Group names are case-insensitive.
type FileSource struct {
	path   string
	groups map[string]map[string]any
}

// LoadFile reads the group file at path. The format is chosen from the file
// extension and defaults to YAML.
func LoadFile(path string) (*FileSource, error) {
	v := viper.New()

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "yaml", "yml":
		v.SetConfigType("yaml")
	case "toml":
		v.SetConfigType("toml")
	case "json":
		v.SetConfigType("json")
	default:
		v.SetConfigType("yaml")
	}

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	fs := &FileSource{
		path:   path,
		groups: make(map[string]map[string]any),
	}
	for name, raw := range v.AllSettings() {
		group, err := cast.ToStringMapE(raw)
		if err != nil {
			return nil, fmt.Errorf("config group %q: %w", name, err)
		}
		fs.groups[strings.ToLower(name)] = Clone(group)
	}

	return fs, nil
}

// Group returns a copy of the named group.
func (f *FileSource) Group(name string) (map[string]any, bool) {
	g, ok := f.groups[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return Clone(g), true
}

// Names returns the group names defined in the file, sorted.
func (f *FileSource) Names() []string {
	names := make([]string, 0, len(f.groups))
	for name := range f.groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Path returns the file the groups were read from.
func (f *FileSource) Path() string {
	return f.path
}
