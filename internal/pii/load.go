package pii

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// LoadPatternsFile merges additional category/pattern pairs from a config
// file (YAML, JSON or TOML, by extension) into a copy of the registry. File
// entries append after the built-in rules, in category name order, so the
// registry stays deterministic.
func LoadPatternsFile(base *Registry, path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading patterns file %s: %w", path, err)
	}

	settings := v.AllSettings()
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	reg := base
	for _, name := range names {
		pattern := v.GetString(name)
		if pattern == "" {
			return nil, fmt.Errorf("pattern %q in %s is not a string", name, path)
		}
		next, err := reg.WithRule(name, pattern)
		if err != nil {
			return nil, err
		}
		reg = next
	}
	return reg, nil
}
