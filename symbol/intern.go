package symbol

import (
	"fmt"
	"strings"

	"github.com/maypok86/otter"
)

// DefaultInternCapacity bounds the package-level interner.
const DefaultInternCapacity = 65536

// Interner deduplicates ClassName values decoded from internal names so
// that scanning large class hierarchies shares their strings. Eviction only
// costs a fresh allocation, equality is unaffected.
type Interner struct {
	classes otter.Cache[string, ClassName]
}

func NewInterner(capacity int) (*Interner, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("intern capacity must be positive, got %d", capacity)
	}
	cache, err := otter.MustBuilder[string, ClassName](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("build intern cache: %w", err)
	}
	return &Interner{classes: cache}, nil
}

var defaultInterner = func() *Interner {
	in, err := NewInterner(DefaultInternCapacity)
	if err != nil {
		panic(err)
	}
	return in
}()

// ClassName returns the class for a slash-separated internal name.
func (in *Interner) ClassName(internal string) ClassName {
	if c, ok := in.classes.Get(internal); ok {
		return c
	}
	c := splitClassName(internal, "/")
	in.classes.Set(internal, c)
	return c
}

// splitClassName treats the last sep-delimited segment as the simple name
// and the rest as the package path. An empty sep splits nothing.
func splitClassName(name, sep string) ClassName {
	i := -1
	if sep != "" {
		i = strings.LastIndex(name, sep)
	}
	if i < 0 {
		if p, ok := primitiveByName(name); ok {
			return p
		}
		return ClassName{name: name}
	}
	pkg := name[:i]
	if sep != "/" {
		pkg = strings.ReplaceAll(pkg, sep, "/")
	}
	return ClassName{pkg: PackageName{path: pkg}, name: name[i+len(sep):]}
}

func primitiveByName(name string) (ClassName, bool) {
	letter, ok := primitiveLetters[name]
	if !ok {
		return ClassName{}, false
	}
	return PrimitiveByLetter(letter)
}
