package resources

import (
	"github.com/buildrlabs/crd-schema-gen/internal/model"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

// SplunkDetectionRule is a Splunk saved search. Keys beyond name,
// description and search are passed to Splunk unchanged. Keys follow the
// convention of the run.
func SplunkDetectionRule() Definition {
	spec := model.NewStruct("SplunkDetectionRuleSpec", naming.Inherit,
		model.Req("name", model.Str()),
		model.Req("description", model.Str()),
		model.Req("search", model.Str()),
		model.Flatten("extra"),
	)
	d := descriptor("SplunkDetectionRule", spec, nil, "splunkrule", "splunkrules")
	return Definition{
		Descriptor: d,
		Schemas:    []Schema{envelope(d, spec)},
	}
}
