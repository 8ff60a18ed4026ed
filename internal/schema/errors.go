package schema

import (
	"fmt"
	"strings"
)

// NamingCollisionError reports two identifiers of one object that serialize
// to the same key.
type NamingCollisionError struct {
	Type   string
	Path   string
	Key    string
	First  string
	Second string
}

func (e *NamingCollisionError) Error() string {
	return fmt.Sprintf("%s: %q and %q of %s both serialize as %q", pathOrRoot(e.Path), e.First, e.Second, e.Type, e.Key)
}

// CyclicSchemaError reports a type that contains itself without a list or map
// in between, or a recursive type where references are not allowed.
type CyclicSchemaError struct {
	Chain []string
}

func (e *CyclicSchemaError) Error() string {
	return "cyclic schema: " + strings.Join(e.Chain, " -> ")
}

// DuplicateDiscriminatorTagError reports two variants of a union sharing a tag.
type DuplicateDiscriminatorTagError struct {
	Union string
	Tag   string
}

func (e *DuplicateDiscriminatorTagError) Error() string {
	return fmt.Sprintf("union %s: discriminator tag %q is used by more than one variant", e.Union, e.Tag)
}

// DiscriminatorMismatchError reports a variant declaring a different
// discriminator key than its union.
type DiscriminatorMismatchError struct {
	Union string
	Tag   string
	Want  string
	Got   string
}

func (e *DiscriminatorMismatchError) Error() string {
	return fmt.Sprintf("union %s: variant %q uses discriminator %q, expected %q", e.Union, e.Tag, e.Got, e.Want)
}

// EmptyEnumError reports an enum without values.
type EmptyEnumError struct {
	Enum string
	Path string
}

func (e *EmptyEnumError) Error() string {
	return fmt.Sprintf("%s: enum %s has no values", pathOrRoot(e.Path), e.Enum)
}

func pathOrRoot(p string) string {
	if p == "" {
		return "<root>"
	}
	return p
}
