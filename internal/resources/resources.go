// Package resources holds the static definitions of the generated kinds.
package resources

import (
	"fmt"
	"strings"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/buildrlabs/crd-schema-gen/internal/crd"
	"github.com/buildrlabs/crd-schema-gen/internal/model"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

const (
	Group   = "buildrlabs.io"
	Version = "v1"
)

// Schema is a standalone JSON Schema emitted next to a CRD.
type Schema struct {
	Name string
	Type *model.Struct
}

// Definition is a resource kind with its CRD descriptor and the JSON Schemas
// published for client side validation.
type Definition struct {
	crd.Descriptor
	Schemas []Schema
}

// All returns every definition in emission order.
func All() []Definition {
	return []Definition{
		AnalyticRule(),
		AutomationRule(),
		Workbook(),
		Macro(),
		SplunkDetectionRule(),
	}
}

// Kinds returns the kinds of all definitions in emission order.
func Kinds() []string {
	defs := All()
	kinds := make([]string, 0, len(defs))
	for _, d := range defs {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

// Lookup returns the definition of kind, matched case insensitively. Plural
// and short names are accepted as well.
func Lookup(kind string) (Definition, error) {
	for _, d := range All() {
		if strings.EqualFold(d.Kind, kind) || d.PluralName() == strings.ToLower(kind) {
			return d, nil
		}
		for _, sn := range d.ShortNames {
			if sn == strings.ToLower(kind) {
				return d, nil
			}
		}
	}
	return Definition{}, fmt.Errorf("unknown resource %q, expected one of %s", kind, strings.Join(Kinds(), ", "))
}

// Select returns the definitions named by kinds in the given order, or all
// definitions when kinds is empty.
func Select(kinds []string) ([]Definition, error) {
	if len(kinds) == 0 {
		return All(), nil
	}
	defs := make([]Definition, 0, len(kinds))
	seen := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		d, err := Lookup(k)
		if err != nil {
			return nil, err
		}
		if seen[d.Kind] {
			continue
		}
		seen[d.Kind] = true
		defs = append(defs, d)
	}
	return defs, nil
}

func descriptor(kind string, spec, status *model.Struct, shortNames ...string) crd.Descriptor {
	return crd.Descriptor{
		Group:      Group,
		Version:    Version,
		Kind:       kind,
		Scope:      apiextensionsv1.NamespaceScoped,
		ShortNames: shortNames,
		Spec:       spec,
		Status:     status,
	}
}

// passThrough is a spec or status accepting any content.
func passThrough(name string) *model.Struct {
	return model.NewStruct(name, naming.CamelCase, model.Flatten("additional_fields"))
}

func envelope(d crd.Descriptor, spec *model.Struct) Schema {
	return Schema{Name: d.Kind + "CRD", Type: crd.Envelope(d, spec)}
}

func column(name, description, jsonPath string) apiextensionsv1.CustomResourceColumnDefinition {
	return apiextensionsv1.CustomResourceColumnDefinition{
		Name:        name,
		Type:        "string",
		Description: description,
		JSONPath:    jsonPath,
	}
}
