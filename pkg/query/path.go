package query

import "strconv"

// PathKind identifies the kind of a path segment.
type PathKind int

const (
	// PathName addresses a named field: .name
	PathName PathKind = iota
	// PathIndex addresses an array element: [index]
	PathIndex
	// PathWildcardName addresses every field of an object: .*
	PathWildcardName
	// PathWildcardIndex addresses every element of an array: [*]
	PathWildcardIndex
)

// Path is one step of a nested access expression rooted at S3Object.
type Path struct {
	Kind  PathKind
	Name  string
	Index uint
}

// Name returns a named field segment.
func Name(name string) Path { return Path{Kind: PathName, Name: name} }

// Index returns an array index segment.
func Index(i uint) Path { return Path{Kind: PathIndex, Index: i} }

// WildcardName returns a segment matching every field of an object.
func WildcardName() Path { return Path{Kind: PathWildcardName} }

// WildcardIndex returns a segment matching every element of an array.
func WildcardIndex() Path { return Path{Kind: PathWildcardIndex} }

func (p Path) String() string {
	switch p.Kind {
	case PathIndex:
		return "[" + strconv.FormatUint(uint64(p.Index), 10) + "]"
	case PathWildcardName:
		return ".*"
	case PathWildcardIndex:
		return "[*]"
	default:
		return "." + p.Name
	}
}
