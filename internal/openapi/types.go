package openapi

import (
	"fmt"
	"maps"
	"slices"

	apiv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

// VisitFunc is called for every schema node with its location below the root.
type VisitFunc func(path string, s *apiv1.JSONSchemaProps)

// Walk visits root and every schema nested in it, depth first. Map keyed
// children are visited in key order; changes made by fn are kept.
func Walk(root *apiv1.JSONSchemaProps, fn VisitFunc) {
	walk("", root, fn)
}

func walk(path string, root *apiv1.JSONSchemaProps, fn VisitFunc) {
	if root == nil {
		return
	}
	fn(path, root)
	if root.Items != nil {
		walk(path+"[]", root.Items.Schema, fn)
		for i := range root.Items.JSONSchemas {
			walk(fmt.Sprintf("%s[%d]", path, i), &root.Items.JSONSchemas[i], fn)
		}
	}
	for i := range root.AllOf {
		walk(fmt.Sprintf("%s.allOf[%d]", path, i), &root.AllOf[i], fn)
	}
	for i := range root.OneOf {
		walk(fmt.Sprintf("%s.oneOf[%d]", path, i), &root.OneOf[i], fn)
	}
	for i := range root.AnyOf {
		walk(fmt.Sprintf("%s.anyOf[%d]", path, i), &root.AnyOf[i], fn)
	}
	walk(path+".not", root.Not, fn)
	walkMap(path, root.Properties, fn)
	if root.AdditionalProperties != nil {
		walk(path+".*", root.AdditionalProperties.Schema, fn)
	}
	walkMap(path, root.PatternProperties, fn)
	if root.AdditionalItems != nil {
		walk(path+"[*]", root.AdditionalItems.Schema, fn)
	}
	walkMap("#/definitions", root.Definitions, fn)
}

func walkMap(path string, m map[string]apiv1.JSONSchemaProps, fn VisitFunc) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		v := m[k]
		walk(path+"."+k, &v, fn)
		m[k] = v
	}
}

// Refs returns the location of every $ref below root.
func Refs(root *apiv1.JSONSchemaProps) (refs []string) {
	Walk(root, func(path string, s *apiv1.JSONSchemaProps) {
		if s.Ref != nil {
			refs = append(refs, fmt.Sprintf("%s -> %s", trimPath(path), *s.Ref))
		}
	})
	return refs
}

func trimPath(p string) string {
	if p == "" {
		return "."
	}
	return p
}
