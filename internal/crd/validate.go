package crd

import (
	"errors"
	"fmt"
	"strings"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/client-go/util/jsonpath"

	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

var columnTypes = sets.New("integer", "number", "string", "boolean", "date")

// Validate checks the descriptor against the rules the API server applies to
// CRD names, short names and printer columns.
func Validate(d Descriptor) error {
	kind := d.Kind
	if kind == "" {
		kind = "<unnamed>"
	}
	invalid := func(field, reason string) error {
		return &InvalidDescriptorError{Kind: kind, Field: field, Reason: reason}
	}

	if d.Kind == "" || naming.PascalCase.Apply(d.Kind) != d.Kind {
		return invalid("kind", "must be a non-empty PascalCase identifier")
	}
	if errs := validation.IsDNS1123Subdomain(d.Group); len(errs) > 0 {
		return invalid("group", strings.Join(errs, "; "))
	}
	if errs := validation.IsDNS1035Label(d.Version); len(errs) > 0 {
		return invalid("version", strings.Join(errs, "; "))
	}
	if errs := validation.IsDNS1035Label(d.PluralName()); len(errs) > 0 {
		return invalid("plural", strings.Join(errs, "; "))
	}
	if errs := validation.IsDNS1035Label(d.SingularName()); len(errs) > 0 {
		return invalid("singular", strings.Join(errs, "; "))
	}
	switch d.ResourceScope() {
	case apiextensionsv1.NamespaceScoped, apiextensionsv1.ClusterScoped:
	default:
		return invalid("scope", fmt.Sprintf("unknown scope %q", d.Scope))
	}

	if err := validateShortNames(kind, d.ShortNames); err != nil {
		return err
	}
	for _, c := range d.Categories {
		if errs := validation.IsDNS1035Label(c); len(errs) > 0 {
			return invalid("category "+c, strings.Join(errs, "; "))
		}
	}
	for _, c := range d.PrinterColumns {
		if err := validateColumn(c); err != nil {
			return invalid(fmt.Sprintf("printer column %q", c.Name), err.Error())
		}
	}
	if d.Scale != nil {
		if !strings.HasPrefix(d.Scale.SpecReplicasPath, ".") {
			return invalid("scale specReplicasPath", fmt.Sprintf("%q must start with a dot", d.Scale.SpecReplicasPath))
		}
		if !strings.HasPrefix(d.Scale.StatusReplicasPath, ".") {
			return invalid("scale statusReplicasPath", fmt.Sprintf("%q must start with a dot", d.Scale.StatusReplicasPath))
		}
	}
	return nil
}

func validateShortNames(kind string, shortNames []string) error {
	seen := sets.New[string]()
	for _, sn := range shortNames {
		switch {
		case sn == "":
			return &InvalidShortNameError{Kind: kind, ShortName: sn, Reason: "must not be empty"}
		case strings.ToLower(sn) != sn:
			return &InvalidShortNameError{Kind: kind, ShortName: sn, Reason: "must be lower case"}
		}
		if errs := validation.IsDNS1035Label(sn); len(errs) > 0 {
			return &InvalidShortNameError{Kind: kind, ShortName: sn, Reason: strings.Join(errs, "; ")}
		}
		if seen.Has(sn) {
			return &DuplicateShortNameError{Kind: kind, ShortName: sn}
		}
		seen.Insert(sn)
	}
	return nil
}

func validateColumn(c apiextensionsv1.CustomResourceColumnDefinition) error {
	if c.Name == "" {
		return errors.New("name must not be empty")
	}
	if !columnTypes.Has(c.Type) {
		return fmt.Errorf("type %q must be one of %s", c.Type, strings.Join(sets.List(columnTypes), ", "))
	}
	if !strings.HasPrefix(c.JSONPath, ".") {
		return fmt.Errorf("jsonPath %q must start with a dot", c.JSONPath)
	}
	if err := jsonpath.New(c.Name).Parse("{" + c.JSONPath + "}"); err != nil {
		return fmt.Errorf("jsonPath %q: %w", c.JSONPath, err)
	}
	if c.Priority < 0 {
		return errors.New("priority must not be negative")
	}
	return nil
}
