// Package schema lowers type models into OpenAPI v3 schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"

	"github.com/buildrlabs/crd-schema-gen/internal/model"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

const (
	// DraftURL is the meta schema of standalone documents.
	DraftURL = "http://json-schema.org/draft-07/schema#"

	definitionsPrefix = "#/definitions/"
)

// Synthesize lowers node into a schema. Struct keys are transformed with the
// struct's own convention, falling back to convention.
//
// Recursive types are only allowed across a list or map boundary. Such
// references are emitted as $ref and their definitions are placed in the
// returned schema's Definitions.
func Synthesize(node model.Node, convention naming.Convention) (*apiextensionsv1.JSONSchemaProps, error) {
	s := &synthesizer{
		recursive:   make(map[model.Named]bool),
		definitions: make(apiextensionsv1.JSONSchemaDefinitions),
		defined:     make(map[string]model.Named),
	}
	out, err := s.node(node, convention)
	if err != nil {
		return nil, err
	}
	if len(s.definitions) > 0 {
		out.Definitions = s.definitions
	}
	return &out, nil
}

// Document returns a self-contained JSON Schema document for node.
func Document(title string, node model.Node, convention naming.Convention) (*apiextensionsv1.JSONSchemaProps, error) {
	out, err := Synthesize(node, convention)
	if err != nil {
		return nil, fmt.Errorf("synthesizing %s: %w", title, err)
	}
	out.Schema = DraftURL
	out.Title = title
	return out, nil
}

type frame struct {
	node       model.Named
	containers int
}

type synthesizer struct {
	// containers counts the lists and maps entered on the current path.
	containers int
	stack      []frame
	path       []string

	recursive   map[model.Named]bool
	definitions apiextensionsv1.JSONSchemaDefinitions
	defined     map[string]model.Named
}

func (s *synthesizer) node(n model.Node, conv naming.Convention) (apiextensionsv1.JSONSchemaProps, error) {
	switch t := n.(type) {
	case *model.Primitive:
		return apiextensionsv1.JSONSchemaProps{Type: string(t.Type), Format: t.Format}, nil
	case *model.Enum:
		return s.enum(t, conv)
	case *model.Struct:
		ref, err := s.enter(t)
		if err != nil || ref != nil {
			return deref(ref), err
		}
		out, err := s.structure(t, conv)
		return out, s.leave(t, out, err)
	case *model.TaggedUnion:
		ref, err := s.enter(t)
		if err != nil || ref != nil {
			return deref(ref), err
		}
		out, err := s.union(t, conv)
		return out, s.leave(t, out, err)
	case *model.List:
		s.containers++
		defer func() { s.containers-- }()
		items, err := s.node(t.Elem, conv)
		if err != nil {
			return apiextensionsv1.JSONSchemaProps{}, err
		}
		return apiextensionsv1.JSONSchemaProps{
			Type:  "array",
			Items: &apiextensionsv1.JSONSchemaPropsOrArray{Schema: &items},
		}, nil
	case *model.Map:
		s.containers++
		defer func() { s.containers-- }()
		values, err := s.node(t.Value, conv)
		if err != nil {
			return apiextensionsv1.JSONSchemaProps{}, err
		}
		return apiextensionsv1.JSONSchemaProps{
			Type:                 "object",
			AdditionalProperties: &apiextensionsv1.JSONSchemaPropsOrBool{Allows: true, Schema: &values},
		}, nil
	case *model.PassThrough:
		return apiextensionsv1.JSONSchemaProps{XPreserveUnknownFields: ptr.To(true)}, nil
	case nil:
		return apiextensionsv1.JSONSchemaProps{}, fmt.Errorf("%s: missing type", pathOrRoot(s.fieldPath()))
	default:
		return apiextensionsv1.JSONSchemaProps{}, fmt.Errorf("%s: unsupported node %T", pathOrRoot(s.fieldPath()), n)
	}
}

// enter pushes a named node. It returns a reference schema when the node is
// already being synthesized behind a list or map.
func (s *synthesizer) enter(n model.Named) (*apiextensionsv1.JSONSchemaProps, error) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].node != n {
			continue
		}
		if s.containers > s.stack[i].containers {
			s.recursive[n] = true
			return &apiextensionsv1.JSONSchemaProps{Ref: ptr.To(definitionsPrefix + n.TypeName())}, nil
		}
		chain := make([]string, 0, len(s.stack)-i+1)
		for _, f := range s.stack[i:] {
			chain = append(chain, f.node.TypeName())
		}
		return nil, &CyclicSchemaError{Chain: append(chain, n.TypeName())}
	}
	s.stack = append(s.stack, frame{node: n, containers: s.containers})
	return nil, nil
}

func (s *synthesizer) leave(n model.Named, out apiextensionsv1.JSONSchemaProps, err error) error {
	s.stack = s.stack[:len(s.stack)-1]
	if err != nil || !s.recursive[n] {
		return err
	}
	name := n.TypeName()
	if prev, ok := s.defined[name]; ok && prev != n {
		return fmt.Errorf("%s: two recursive types are named %q", pathOrRoot(s.fieldPath()), name)
	}
	s.defined[name] = n
	s.definitions[name] = out
	return nil
}

func (s *synthesizer) enum(e *model.Enum, inherited naming.Convention) (apiextensionsv1.JSONSchemaProps, error) {
	if len(e.Values) == 0 {
		return apiextensionsv1.JSONSchemaProps{}, &EmptyEnumError{Enum: e.Name, Path: s.fieldPath()}
	}
	conv := e.Convention.Or(inherited)
	out := apiextensionsv1.JSONSchemaProps{Type: "string"}
	seen := make(map[string]string, len(e.Values))
	for _, v := range e.Values {
		key := naming.Key(conv, v.Ident, v.Rename)
		if first, ok := seen[key]; ok {
			return out, &NamingCollisionError{Type: e.Name, Path: s.fieldPath(), Key: key, First: first, Second: v.Ident}
		}
		seen[key] = v.Ident
		out.Enum = append(out.Enum, rawString(key))
	}
	return out, nil
}

func (s *synthesizer) structure(st *model.Struct, inherited naming.Convention) (apiextensionsv1.JSONSchemaProps, error) {
	conv := st.Convention.Or(inherited)
	out := apiextensionsv1.JSONSchemaProps{Type: "object", Description: st.Description}
	if err := s.fields(&out, st, conv, make(map[string]string)); err != nil {
		return out, err
	}
	return out, nil
}

// fields adds the fields of st to out. seen maps the keys already present in
// out to the identifiers that produced them.
func (s *synthesizer) fields(out *apiextensionsv1.JSONSchemaProps, st *model.Struct, conv naming.Convention, seen map[string]string) error {
	for _, f := range st.Fields {
		if f.Type == nil {
			return fmt.Errorf("%s: field %q of %s has no type", pathOrRoot(s.fieldPath()), f.Ident, st.Name)
		}
		if f.Type.Kind() == model.KindPassThrough {
			out.XPreserveUnknownFields = ptr.To(true)
			continue
		}

		key := naming.Key(conv, f.Ident, f.Rename)
		if first, ok := seen[key]; ok {
			return &NamingCollisionError{Type: st.Name, Path: s.fieldPath(), Key: key, First: first, Second: f.Ident}
		}
		seen[key] = f.Ident

		s.path = append(s.path, key)
		prop, err := s.node(f.Type, conv)
		if err == nil && f.Default != "" {
			if !json.Valid([]byte(f.Default)) {
				err = fmt.Errorf("%s: default %q is not valid JSON", s.fieldPath(), f.Default)
			}
			prop.Default = &apiextensionsv1.JSON{Raw: []byte(f.Default)}
		}
		s.path = s.path[:len(s.path)-1]
		if err != nil {
			return err
		}
		if f.Description != "" {
			prop.Description = f.Description
		}

		if out.Properties == nil {
			out.Properties = make(map[string]apiextensionsv1.JSONSchemaProps)
		}
		out.Properties[key] = prop
		if f.Required {
			out.Required = append(out.Required, key)
		}
	}

	if st.Additional != nil {
		s.containers++
		values, err := s.node(st.Additional, conv)
		s.containers--
		if err != nil {
			return err
		}
		out.AdditionalProperties = &apiextensionsv1.JSONSchemaPropsOrBool{Allows: true, Schema: &values}
	}
	return nil
}

func (s *synthesizer) union(u *model.TaggedUnion, inherited naming.Convention) (apiextensionsv1.JSONSchemaProps, error) {
	var out apiextensionsv1.JSONSchemaProps
	if u.Discriminator == "" {
		return out, fmt.Errorf("%s: union %s has no discriminator", pathOrRoot(s.fieldPath()), u.Name)
	}
	if len(u.Variants) == 0 {
		return out, fmt.Errorf("%s: union %s has no variants", pathOrRoot(s.fieldPath()), u.Name)
	}

	conv := u.Convention.Or(inherited)
	tags := sets.New[string]()
	for _, v := range u.Variants {
		if v.Discriminator != "" && v.Discriminator != u.Discriminator {
			return out, &DiscriminatorMismatchError{Union: u.Name, Tag: v.Tag, Want: u.Discriminator, Got: v.Discriminator}
		}
		if tags.Has(v.Tag) {
			return out, &DuplicateDiscriminatorTagError{Union: u.Name, Tag: v.Tag}
		}
		tags.Insert(v.Tag)

		branch := apiextensionsv1.JSONSchemaProps{
			Type: "object",
			Properties: map[string]apiextensionsv1.JSONSchemaProps{
				u.Discriminator: {Type: "string", Enum: []apiextensionsv1.JSON{rawString(v.Tag)}},
			},
			Required: []string{u.Discriminator},
		}
		if err := s.variant(&branch, u, v, conv); err != nil {
			return out, err
		}
		out.OneOf = append(out.OneOf, branch)
	}
	return out, nil
}

func (s *synthesizer) variant(branch *apiextensionsv1.JSONSchemaProps, u *model.TaggedUnion, v model.Variant, conv naming.Convention) error {
	seen := map[string]string{u.Discriminator: u.Discriminator}
	s.path = append(s.path, fmt.Sprintf("%s[%s]", u.Name, v.Tag))
	defer func() { s.path = s.path[:len(s.path)-1] }()

	switch {
	case v.Payload == nil:
		return nil
	case v.Field != "":
		key := conv.Apply(v.Field)
		if _, ok := seen[key]; ok {
			return &NamingCollisionError{Type: u.Name, Path: s.fieldPath(), Key: key, First: u.Discriminator, Second: v.Field}
		}
		s.path = append(s.path, key)
		prop, err := s.node(v.Payload, conv)
		s.path = s.path[:len(s.path)-1]
		if err != nil {
			return err
		}
		branch.Properties[key] = prop
		branch.Required = append(branch.Required, key)
		return nil
	}

	st, ok := v.Payload.(*model.Struct)
	if !ok {
		return fmt.Errorf("%s: payload of variant %q must be a struct to be flattened, got %s",
			s.fieldPath(), v.Tag, v.Payload.Kind())
	}
	ref, err := s.enter(st)
	if err != nil {
		return err
	}
	if ref != nil {
		return &CyclicSchemaError{Chain: []string{u.Name, st.Name, "(flattened)"}}
	}
	err = s.fields(branch, st, st.Convention.Or(conv), seen)
	s.stack = s.stack[:len(s.stack)-1]
	if err != nil {
		return err
	}
	// the branch holds the discriminator, so a payload referenced from
	// below needs a definition of its own
	if s.recursive[st] {
		if _, ok := s.definitions[st.Name]; !ok {
			_, err = s.node(st, conv)
		}
	}
	return err
}

func (s *synthesizer) fieldPath() string {
	return strings.Join(s.path, ".")
}

func deref(p *apiextensionsv1.JSONSchemaProps) apiextensionsv1.JSONSchemaProps {
	if p == nil {
		return apiextensionsv1.JSONSchemaProps{}
	}
	return *p
}

func rawString(v string) apiextensionsv1.JSON {
	b, _ := json.Marshal(v)
	return apiextensionsv1.JSON{Raw: b}
}
