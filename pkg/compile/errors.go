package compile

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind tags the distinct ways compiling a schema AST can fail.
type ErrorKind int

const (
	DuplicateName ErrorKind = iota
	UndefinedName
	DuplicateRecordFieldNames
	DuplicateEnumVariantNames
	DuplicateUnionVariantSpecs
	InfinitelyRecursiveType
	IllegalDecimalFmt
)

func (k ErrorKind) String() string {
	switch k {
	case DuplicateName:
		return "DuplicateName"
	case UndefinedName:
		return "UndefinedName"
	case DuplicateRecordFieldNames:
		return "DuplicateRecordFieldNames"
	case DuplicateEnumVariantNames:
		return "DuplicateEnumVariantNames"
	case DuplicateUnionVariantSpecs:
		return "DuplicateUnionVariantSpecs"
	case InfinitelyRecursiveType:
		return "InfinitelyRecursiveType"
	case IllegalDecimalFmt:
		return "IllegalDecimalFmt"
	default:
		return "ErrorKind(?)"
	}
}

// Error reports why a schema AST failed to compile.
//
// Name is populated for DuplicateName and UndefinedName. Names is populated
// for DuplicateRecordFieldNames, DuplicateEnumVariantNames, and
// InfinitelyRecursiveType. VariantCount is populated for
// DuplicateUnionVariantSpecs (the number of variants whose encoding repeats
// that of an earlier variant, so Union[Bool, Bool] reports 1).
type Error struct {
	Kind         ErrorKind
	Name         string
	Names        []string
	VariantCount int
}

func (e *Error) Error() string {
	switch e.Kind {
	case DuplicateName, UndefinedName:
		return fmt.Sprintf("compile: %s(%q)", e.Kind, e.Name)
	case DuplicateRecordFieldNames, DuplicateEnumVariantNames, InfinitelyRecursiveType:
		names := append([]string(nil), e.Names...)
		sort.Strings(names)
		return fmt.Sprintf("compile: %s(%s)", e.Kind, strings.Join(names, ", "))
	case DuplicateUnionVariantSpecs:
		return fmt.Sprintf("compile: %s(%d colliding variants)", e.Kind, e.VariantCount)
	case IllegalDecimalFmt:
		return "compile: IllegalDecimalFmt: scale exceeds precision"
	default:
		return fmt.Sprintf("compile: %s", e.Kind)
	}
}

func duplicateNameErr(n string) *Error { return &Error{Kind: DuplicateName, Name: n} }
func undefinedNameErr(n string) *Error { return &Error{Kind: UndefinedName, Name: n} }

func infinitelyRecursiveErr(names map[string]bool) *Error {
	return &Error{Kind: InfinitelyRecursiveType, Names: sortedKeys(names)}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
