package scanner

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter selects classes by internal name ("com/example/Foo$Bar") using
// glob patterns with '/' as the separator: "*" stays within one package
// segment, "**" crosses segments.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles the patterns. With no include patterns every class not
// excluded matches.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = compileAll(include); err != nil {
		return nil, err
	}
	if f.exclude, err = compileAll(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Match reports whether a class passes the filter. A nil Filter matches
// everything.
func (f *Filter) Match(internalName string) bool {
	if f == nil {
		return true
	}
	for _, g := range f.exclude {
		if g.Match(internalName) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, g := range f.include {
		if g.Match(internalName) {
			return true
		}
	}
	return false
}
