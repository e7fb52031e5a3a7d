package symbol

// Contains reports whether outer is, or structurally encloses, inner.
//
//	package -> package   segment prefix
//	package -> member    contains the member's package
//	class   -> class     same package and equal name or name prefixed by "Outer$"
//	class   -> member    contains the member's owner
//	field   -> field     identity
//	method  -> method    identity, descriptor included
//
// Every other pairing is false.
func Contains(outer, inner FullyQualifiedName) bool {
	switch o := outer.(type) {
	case PackageName:
		switch i := inner.(type) {
		case PackageName:
			return o.containsPackage(i)
		case ClassName:
			return o.containsPackage(i.pkg)
		case FieldName:
			return o.containsPackage(i.owner.pkg)
		case MethodName:
			return o.containsPackage(i.owner.pkg)
		}
	case ClassName:
		switch i := inner.(type) {
		case ClassName:
			return o.containsClass(i)
		case FieldName:
			return o.containsClass(i.owner)
		case MethodName:
			return o.containsClass(i.owner)
		}
	case FieldName:
		if i, ok := inner.(FieldName); ok {
			return o == i
		}
	case MethodName:
		if i, ok := inner.(MethodName); ok {
			return o == i
		}
	}
	return false
}

// Kind names the variant of a FullyQualifiedName.
type Kind string

const (
	KindPackage Kind = "package"
	KindClass   Kind = "class"
	KindField   Kind = "field"
	KindMethod  Kind = "method"
)

func KindOf(f FullyQualifiedName) Kind {
	switch f.(type) {
	case PackageName:
		return KindPackage
	case ClassName:
		return KindClass
	case FieldName:
		return KindField
	case MethodName:
		return KindMethod
	}
	return ""
}

// Key is a string that identifies f among all variants. A package and a
// class can share an FqnString ("a.b"), their keys differ.
func Key(f FullyQualifiedName) string {
	return string(KindOf(f)) + ":" + f.FqnString()
}
