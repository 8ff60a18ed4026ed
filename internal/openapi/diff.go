package openapi

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	apiv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

// Diff returns a human readable difference between two CRDs, or an empty
// string when they are equivalent. Server populated fields are ignored.
func Diff(want, got *apiv1.CustomResourceDefinition) string {
	type crdView struct {
		APIVersion  string
		Kind        string
		Name        string
		Annotations map[string]string
		Spec        apiv1.CustomResourceDefinitionSpec
	}
	view := func(crd *apiv1.CustomResourceDefinition) crdView {
		return crdView{
			APIVersion:  crd.APIVersion,
			Kind:        crd.Kind,
			Name:        crd.Name,
			Annotations: crd.Annotations,
			Spec:        crd.Spec,
		}
	}
	return cmp.Diff(view(want), view(got), cmpopts.EquateEmpty())
}
