package resources

import (
	"github.com/buildrlabs/crd-schema-gen/internal/model"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

// Macro is a Microsoft Sentinel KQL macro.
func Macro() Definition {
	spec := model.NewStruct("MicrosoftSentinelMacroSpec", naming.Inherit,
		model.Req("content", model.Str()),
	)
	d := descriptor("MicrosoftSentinelMacro", spec, nil, "msm", "msms")
	return Definition{
		Descriptor: d,
		Schemas:    []Schema{envelope(d, spec)},
	}
}
