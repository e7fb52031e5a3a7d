package symbol

// Access is the visibility of a class or member.
type Access int

const (
	AccessDefault Access = iota
	AccessPrivate
	AccessProtected
	AccessPublic
)

// JVM access flag bits relevant to visibility.
const (
	FlagPublic    uint32 = 0x0001
	FlagPrivate   uint32 = 0x0002
	FlagProtected uint32 = 0x0004
)

// AccessFromFlags classifies a raw access-flag bitmask. When several
// visibility bits are set the first match in public, protected, private
// order wins.
func AccessFromFlags(flags uint32) Access {
	if flags&FlagPublic != 0 {
		return AccessPublic
	}
	if flags&FlagProtected != 0 {
		return AccessProtected
	}
	if flags&FlagPrivate != 0 {
		return AccessPrivate
	}
	return AccessDefault
}

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "default"
	}
}
