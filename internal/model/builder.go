package model

import "github.com/buildrlabs/crd-schema-gen/internal/naming"

var (
	stringType  = &Primitive{Type: String}
	integerType = &Primitive{Type: Integer, Format: "int64"}
	boolType    = &Primitive{Type: Boolean}
	anyType     = &Primitive{Type: Any}
)

// Str returns the string primitive.
func Str() Node { return stringType }

// Int returns the 64 bit integer primitive.
func Int() Node { return integerType }

// Bool returns the boolean primitive.
func Bool() Node { return boolType }

// JSON returns the free-form value primitive.
func JSON() Node { return anyType }

// ListOf returns a list of elem.
func ListOf(elem Node) *List { return &List{Elem: elem} }

// MapOf returns a string keyed map of value.
func MapOf(value Node) *Map { return &Map{Value: value} }

// Open returns a pass-through marker.
func Open() *PassThrough { return &PassThrough{} }

// NewEnum returns an enum with one value per ident.
func NewEnum(name string, convention naming.Convention, idents ...string) *Enum {
	e := &Enum{Name: name, Convention: convention}
	for _, id := range idents {
		e.Values = append(e.Values, EnumValue{Ident: id})
	}
	return e
}

// Rename adds a value serialized as literal.
func (e *Enum) Rename(ident, literal string) *Enum {
	e.Values = append(e.Values, EnumValue{Ident: ident, Rename: literal})
	return e
}

// Req returns a required field.
func Req(ident string, t Node) Field {
	return Field{Ident: ident, Type: t, Required: true}
}

// Opt returns an optional field.
func Opt(ident string, t Node) Field {
	return Field{Ident: ident, Type: t}
}

// Flatten returns the pass-through field of an open struct.
func Flatten(ident string) Field {
	return Field{Ident: ident, Type: Open()}
}

// As returns a copy of the field serialized under literal.
func (f Field) As(literal string) Field {
	f.Rename = literal
	return f
}

// Describe returns a copy of the field with a description.
func (f Field) Describe(desc string) Field {
	f.Description = desc
	return f
}

// WithDefault returns a copy of the field with a JSON encoded default.
func (f Field) WithDefault(raw string) Field {
	f.Default = raw
	return f
}

// NewStruct returns a struct with the given fields.
func NewStruct(name string, convention naming.Convention, fields ...Field) *Struct {
	return &Struct{Name: name, Convention: convention, Fields: fields}
}
