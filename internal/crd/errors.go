package crd

import "fmt"

// InvalidDescriptorError reports a descriptor field Kubernetes would reject.
type InvalidDescriptorError struct {
	Kind   string
	Field  string
	Reason string
}

func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Kind, e.Field, e.Reason)
}

// DuplicateShortNameError reports a short name listed twice.
type DuplicateShortNameError struct {
	Kind      string
	ShortName string
}

func (e *DuplicateShortNameError) Error() string {
	return fmt.Sprintf("%s: duplicate short name %q", e.Kind, e.ShortName)
}

// InvalidShortNameError reports an empty or non lower case short name.
type InvalidShortNameError struct {
	Kind      string
	ShortName string
	Reason    string
}

func (e *InvalidShortNameError) Error() string {
	return fmt.Sprintf("%s: invalid short name %q: %s", e.Kind, e.ShortName, e.Reason)
}

// NonStructuralSchemaError reports a schema node the API server would reject
// as non-structural.
type NonStructuralSchemaError struct {
	Kind   string
	Part   string
	Path   string
	Reason string
}

func (e *NonStructuralSchemaError) Error() string {
	return fmt.Sprintf("%s %s: non-structural schema at %s: %s", e.Kind, e.Part, e.Path, e.Reason)
}
