package symbol

import (
	"encoding/json"
	"sort"
)

// RefSet is a set of names, keyed by Key so that a package and a class with
// the same dotted rendering stay distinct.
type RefSet struct {
	m map[string]FullyQualifiedName
}

func NewRefSet(refs ...FullyQualifiedName) *RefSet {
	s := &RefSet{m: make(map[string]FullyQualifiedName, len(refs))}
	for _, r := range refs {
		s.Add(r)
	}
	return s
}

func (s *RefSet) Add(ref FullyQualifiedName) {
	if s.m == nil {
		s.m = make(map[string]FullyQualifiedName)
	}
	s.m[Key(ref)] = ref
}

// AddClass adds c unless it is a primitive.
func (s *RefSet) AddClass(c ClassName) {
	if c.IsPrimitive() {
		return
	}
	s.Add(c)
}

// AddDescriptor adds the reified class of every non-primitive type in d.
func (s *RefSet) AddDescriptor(d Descriptor) {
	for _, p := range d.Params() {
		s.AddClass(p.Reifier())
	}
	if ret := d.Return(); ret != nil {
		s.AddClass(ret.Reifier())
	}
}

func (s *RefSet) Has(ref FullyQualifiedName) bool {
	if s == nil {
		return false
	}
	_, ok := s.m[Key(ref)]
	return ok
}

func (s *RefSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// Sorted returns the members ordered by Key.
func (s *RefSet) Sorted() []FullyQualifiedName {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]FullyQualifiedName, len(keys))
	for i, k := range keys {
		out[i] = s.m[k]
	}
	return out
}

func (s *RefSet) MarshalJSON() ([]byte, error) {
	refs := s.Sorted()
	keys := make([]string, len(refs))
	for i, r := range refs {
		keys[i] = Key(r)
	}
	return json.Marshal(keys)
}
