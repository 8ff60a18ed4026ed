package crd

import (
	"fmt"
	"maps"
	"slices"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/buildrlabs/crd-schema-gen/internal/naming"
	"github.com/buildrlabs/crd-schema-gen/internal/openapi"
	"github.com/buildrlabs/crd-schema-gen/internal/schema"
)

// DefaultAPIVersion is the apiVersion of generated manifests.
const DefaultAPIVersion = "apiextensions.k8s.io/v1"

type options struct {
	apiVersion  string
	annotations map[string]string
}

// Option customizes an assembled manifest.
type Option func(*options)

// WithAPIVersion overrides the manifest apiVersion.
func WithAPIVersion(v string) Option {
	return func(o *options) {
		o.apiVersion = v
	}
}

// WithAnnotations adds metadata annotations to the manifest.
func WithAnnotations(a map[string]string) Option {
	return func(o *options) {
		if len(a) == 0 {
			return
		}
		if o.annotations == nil {
			o.annotations = make(map[string]string, len(a))
		}
		maps.Copy(o.annotations, a)
	}
}

// Build synthesizes the spec and status types of d and assembles the manifest.
func Build(d Descriptor, convention naming.Convention, opts ...Option) (*apiextensionsv1.CustomResourceDefinition, error) {
	if d.Spec == nil {
		return nil, &InvalidDescriptorError{Kind: d.Kind, Field: "spec", Reason: "no spec type"}
	}
	spec, err := schema.Synthesize(d.Spec, convention)
	if err != nil {
		return nil, fmt.Errorf("%s spec: %w", d.Kind, err)
	}
	var status *apiextensionsv1.JSONSchemaProps
	if d.Status != nil {
		status, err = schema.Synthesize(d.Status, convention)
		if err != nil {
			return nil, fmt.Errorf("%s status: %w", d.Kind, err)
		}
	}
	return Assemble(d, spec, status, opts...)
}

// Assemble wraps the spec and optional status schema into a CRD manifest with
// a single served and stored version.
func Assemble(
	d Descriptor,
	spec, status *apiextensionsv1.JSONSchemaProps,
	opts ...Option,
) (*apiextensionsv1.CustomResourceDefinition, error) {
	o := options{apiVersion: DefaultAPIVersion}
	for _, opt := range opts {
		opt(&o)
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, &InvalidDescriptorError{Kind: d.Kind, Field: "spec", Reason: "no spec schema"}
	}
	if err := structural(d.Kind, "spec", spec); err != nil {
		return nil, err
	}

	root := &apiextensionsv1.JSONSchemaProps{
		Title:    d.Kind,
		Type:     "object",
		Required: []string{"spec"},
		Properties: map[string]apiextensionsv1.JSONSchemaProps{
			"spec": *spec,
		},
	}
	version := apiextensionsv1.CustomResourceDefinitionVersion{
		Name:                     d.Version,
		Served:                   true,
		Storage:                  true,
		Schema:                   &apiextensionsv1.CustomResourceValidation{OpenAPIV3Schema: root},
		AdditionalPrinterColumns: slices.Clone(d.PrinterColumns),
	}

	if status != nil {
		if err := structural(d.Kind, "status", status); err != nil {
			return nil, err
		}
		st := *status
		st.Nullable = true
		root.Properties["status"] = st
		version.Subresources = &apiextensionsv1.CustomResourceSubresources{
			Status: &apiextensionsv1.CustomResourceSubresourceStatus{},
		}
	}
	if d.Scale != nil {
		if version.Subresources == nil {
			version.Subresources = &apiextensionsv1.CustomResourceSubresources{}
		}
		scale := &apiextensionsv1.CustomResourceSubresourceScale{
			SpecReplicasPath:   d.Scale.SpecReplicasPath,
			StatusReplicasPath: d.Scale.StatusReplicasPath,
		}
		if d.Scale.LabelSelectorPath != "" {
			scale.LabelSelectorPath = ptr.To(d.Scale.LabelSelectorPath)
		}
		version.Subresources.Scale = scale
	}

	return &apiextensionsv1.CustomResourceDefinition{
		TypeMeta: metav1.TypeMeta{
			APIVersion: o.apiVersion,
			Kind:       "CustomResourceDefinition",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:        d.Name(),
			Annotations: o.annotations,
		},
		Spec: apiextensionsv1.CustomResourceDefinitionSpec{
			Group: d.Group,
			Names: apiextensionsv1.CustomResourceDefinitionNames{
				Plural:     d.PluralName(),
				Singular:   d.SingularName(),
				ShortNames: slices.Clone(d.ShortNames),
				Kind:       d.Kind,
				ListKind:   d.ListKind(),
				Categories: slices.Clone(d.Categories),
			},
			Scope:    d.ResourceScope(),
			Versions: []apiextensionsv1.CustomResourceDefinitionVersion{version},
		},
	}, nil
}

// structural rejects schemas the API server refuses as non-structural:
// references must be inlined and a node may not combine properties with
// additionalProperties.
func structural(kind, part string, s *apiextensionsv1.JSONSchemaProps) error {
	refs := openapi.Refs(s)
	if len(s.Definitions) > 0 || len(refs) > 0 {
		chain := []string{kind, part}
		if len(refs) > 0 {
			chain = append(chain, refs[0])
		}
		return &schema.CyclicSchemaError{Chain: chain}
	}

	var err error
	openapi.Walk(s, func(path string, node *apiextensionsv1.JSONSchemaProps) {
		if err != nil || len(node.Properties) == 0 || node.AdditionalProperties == nil {
			return
		}
		if path == "" {
			path = "."
		}
		err = &NonStructuralSchemaError{
			Kind:   kind,
			Part:   part,
			Path:   path,
			Reason: "properties and additionalProperties are mutually exclusive",
		}
	})
	return err
}
