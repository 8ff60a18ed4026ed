// Package model describes the shape of a custom resource as plain data.
//
// A model is a tree of Node values built once from static definitions. Nodes
// are pointers so that recursive types, like a condition whose variants hold
// lists of conditions, can be expressed by referencing an already allocated
// node.
package model

import (
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

// Kind identifies a node type.
type Kind int

const (
	KindPrimitive Kind = iota
	KindEnum
	KindStruct
	KindList
	KindMap
	KindTaggedUnion
	KindPassThrough
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindTaggedUnion:
		return "tagged-union"
	case KindPassThrough:
		return "pass-through"
	}
	return "unknown"
}

// Node is implemented by every type model node.
type Node interface {
	Kind() Kind
}

// Named is implemented by nodes that carry a type name, used for cycle
// detection and schema definitions.
type Named interface {
	Node
	TypeName() string
}

// PrimitiveType is the JSON type of a primitive.
type PrimitiveType string

const (
	String  PrimitiveType = "string"
	Integer PrimitiveType = "integer"
	Number  PrimitiveType = "number"
	Boolean PrimitiveType = "boolean"
	// Any accepts any JSON value.
	Any PrimitiveType = ""
)

// Primitive is a scalar or a free-form JSON value.
type Primitive struct {
	Type   PrimitiveType
	Format string
}

func (*Primitive) Kind() Kind { return KindPrimitive }

// Enum is a closed set of string values.
type Enum struct {
	Name       string
	Convention naming.Convention
	Values     []EnumValue
}

// EnumValue is a single enum variant. Rename overrides the naming convention.
type EnumValue struct {
	Ident  string
	Rename string
}

func (*Enum) Kind() Kind { return KindEnum }
func (e *Enum) TypeName() string { return e.Name }

// Struct is an object with an ordered set of fields.
type Struct struct {
	Name        string
	Description string
	// Convention applies to the field keys; the zero value inherits the
	// convention of the enclosing type.
	Convention naming.Convention
	Fields     []Field
	// Additional types the values of keys not declared in Fields, like a
	// flattened map. Nil leaves additional properties unconstrained.
	Additional Node
}

// Field is a struct member.
type Field struct {
	Ident       string
	Rename      string
	Type        Node
	Required    bool
	Description string
	// Default is a JSON encoded default value.
	Default string
}

func (*Struct) Kind() Kind { return KindStruct }
func (s *Struct) TypeName() string { return s.Name }

// Open reports whether the struct carries a PassThrough field.
func (s *Struct) Open() bool {
	for _, f := range s.Fields {
		if f.Type != nil && f.Type.Kind() == KindPassThrough {
			return true
		}
	}
	return false
}

// List is a homogeneous sequence.
type List struct {
	Elem Node
}

func (*List) Kind() Kind { return KindList }

// Map is a string keyed mapping with an arbitrary key set.
type Map struct {
	Value Node
}

func (*Map) Kind() Kind { return KindMap }

// TaggedUnion is a discriminated union encoded with the tag and the payload
// side by side in one object.
type TaggedUnion struct {
	Name          string
	Discriminator string
	// Convention applies to variant payload keys.
	Convention naming.Convention
	Variants   []Variant
}

// Variant is one alternative of a TaggedUnion.
type Variant struct {
	// Tag is the discriminator value selecting this variant.
	Tag string
	// Field, when set, places the payload under this key. Otherwise the
	// payload must be a *Struct whose fields are merged into the variant.
	Field   string
	Payload Node
	// Discriminator optionally restates the discriminator key; it must match
	// the union's.
	Discriminator string
}

func (*TaggedUnion) Kind() Kind { return KindTaggedUnion }
func (u *TaggedUnion) TypeName() string { return u.Name }

// PassThrough marks the enclosing struct as accepting arbitrary keys.
type PassThrough struct{}

func (*PassThrough) Kind() Kind { return KindPassThrough }
