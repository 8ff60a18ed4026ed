package resources

import (
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/buildrlabs/crd-schema-gen/internal/model"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

// Workbook is a Microsoft Sentinel workbook. Like automation rules the CRD
// is pass-through and the typed spec is published as a JSON Schema.
func Workbook() Definition {
	identityType := &model.Enum{
		Name:       "ManagedServiceIdentityType",
		Convention: naming.Verbatim,
		Values: []model.EnumValue{
			{Ident: "SystemAssigned"},
			{Ident: "SystemAssignedUserAssigned", Rename: "SystemAssigned,UserAssigned"},
			{Ident: "UserAssigned"},
			{Ident: "NoneIdentity", Rename: "None"},
		},
	}

	spec := model.NewStruct("MicrosoftSentinelWorkbookSpec", naming.Verbatim,
		model.Req("location", model.Str()),
		model.Req("properties", model.NewStruct("WorkbookProperties", naming.CamelCase,
			model.Req("category", model.Str()),
			model.Req("display_name", model.Str()),
			model.Req("serialized_data", model.Str()),
			model.Opt("description", model.Str()),
			model.Opt("source_id", model.Str()),
			model.Opt("storage_uri", model.Str()),
			model.Opt("tags", model.ListOf(model.Str())),
			model.Opt("version", model.Str()),
		)),
		model.Req("tags", model.ListOf(model.Str())),
		model.Req("kind", model.NewEnum("Kind", naming.Lowercase, "Shared", "User")),
		model.Req("identity", model.NewStruct("Identity", naming.CamelCase,
			model.Req("principal_id", model.Str()),
			model.Req("tenant_id", model.Str()),
			model.Req("type", identityType),
			model.Req("user_assigned_identities", model.MapOf(model.NewStruct("UserAssignedIdentity", naming.CamelCase,
				model.Req("client_id", model.Str()),
				model.Req("principal_id", model.Str()),
			))),
		)),
	)

	d := descriptor("MicrosoftSentinelWorkbook",
		passThrough("MicrosoftSentinelWorkbookCRDSpec"),
		model.NewStruct("MicrosoftSentinelWorkbookStatus", naming.Verbatim,
			model.Req("message", model.Str()),
		),
		"msw", "msws")
	d.PrinterColumns = []apiextensionsv1.CustomResourceColumnDefinition{
		column("Message", "Additional information about the deployment status", ".status.create_workbook.message"),
	}

	return Definition{
		Descriptor: d,
		Schemas: []Schema{
			{Name: d.Kind, Type: spec},
			envelope(d, spec),
		},
	}
}
