// Package crd assembles CustomResourceDefinition manifests from synthesized
// schemas and resource descriptors.
package crd

import (
	"strings"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/buildrlabs/crd-schema-gen/internal/model"
)

// Descriptor holds the Kubernetes metadata of a custom resource kind.
type Descriptor struct {
	Group   string
	Version string
	Kind    string
	// Plural defaults to the lower case kind pluralized by English suffix
	// rules, Singular to the lower case kind.
	Plural   string
	Singular string
	// Scope defaults to NamespaceScoped.
	Scope          apiextensionsv1.ResourceScope
	ShortNames     []string
	Categories     []string
	PrinterColumns []apiextensionsv1.CustomResourceColumnDefinition

	Spec *model.Struct
	// Status is optional. When set the status subresource is enabled.
	Status *model.Struct
	Scale  *Scale
}

// Scale enables the scale subresource.
type Scale struct {
	SpecReplicasPath   string
	StatusReplicasPath string
	LabelSelectorPath  string
}

// PluralName returns the plural resource name.
func (d Descriptor) PluralName() string {
	if d.Plural != "" {
		return d.Plural
	}
	return pluralize(strings.ToLower(d.Kind))
}

// pluralize derives a resource name with the suffix rules of Kubernetes
// clients: es after s, x, z, ch and sh, ies for a consonant followed by y.
func pluralize(word string) string {
	switch {
	case word == "":
		return word
	case strings.HasSuffix(word, "s"), strings.HasSuffix(word, "x"), strings.HasSuffix(word, "z"),
		strings.HasSuffix(word, "ch"), strings.HasSuffix(word, "sh"):
		return word + "es"
	case len(word) > 1 && strings.HasSuffix(word, "y") && !strings.ContainsRune("aeiou", rune(word[len(word)-2])):
		return word[:len(word)-1] + "ies"
	}
	return word + "s"
}

// SingularName returns the singular resource name.
func (d Descriptor) SingularName() string {
	if d.Singular != "" {
		return d.Singular
	}
	return strings.ToLower(d.Kind)
}

// Name returns the CRD object name, <plural>.<group>.
func (d Descriptor) Name() string {
	return d.PluralName() + "." + d.Group
}

// ListKind returns the kind of the list type.
func (d Descriptor) ListKind() string {
	return d.Kind + "List"
}

// APIVersion returns the group/version of resources of this kind.
func (d Descriptor) APIVersion() string {
	return d.Group + "/" + d.Version
}

// ResourceScope returns the scope, defaulting to namespaced.
func (d Descriptor) ResourceScope() apiextensionsv1.ResourceScope {
	if d.Scope == "" {
		return apiextensionsv1.NamespaceScoped
	}
	return d.Scope
}
