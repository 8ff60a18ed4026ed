package crd

import (
	"github.com/buildrlabs/crd-schema-gen/internal/model"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

// Envelope returns the type of a complete resource document of kind d, as
// applied by clients: kind and apiVersion pinned to d, object metadata and the
// given spec. A nil spec uses d.Spec.
func Envelope(d Descriptor, spec *model.Struct) *model.Struct {
	if spec == nil {
		spec = d.Spec
	}
	metadata := model.NewStruct("Metadata", naming.CamelCase,
		model.Req("name", model.Str()),
		model.Opt("namespace", model.Str()),
	)
	// labels, annotations and the like are flattened into the metadata object
	metadata.Additional = model.Str()

	return model.NewStruct(d.Kind+"CRD", naming.CamelCase,
		model.Req("kind", model.NewEnum("CRDName", naming.Verbatim, d.Kind)),
		model.Req("spec", spec),
		model.Req("api_version", (&model.Enum{Name: "APIVersion", Convention: naming.Verbatim}).
			Rename("GroupVersion", d.APIVersion())),
		model.Req("metadata", metadata),
	)
}
