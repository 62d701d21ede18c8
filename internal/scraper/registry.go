package scraper

import (
	"sort"
	"strings"
)

var registry = map[string]Source{}

func Register(s Source) {
	registry[strings.ToLower(s.Name())] = s
}

func Get(name string) (Source, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// Names lists registered sources, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
