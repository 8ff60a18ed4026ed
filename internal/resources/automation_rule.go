package resources

import (
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/buildrlabs/crd-schema-gen/internal/model"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

// AutomationRule is a Microsoft Sentinel automation rule. The CRD accepts any
// spec; the typed spec is published as a JSON Schema only, since its
// conditions are recursive.
func AutomationRule() Definition {
	operator := model.NewEnum("PropertyConditionSupportedOperator", naming.Verbatim,
		"Contains", "EndsWith", "Equals", "NotContains", "NotEndsWith", "NotEquals", "NotStartsWith", "StartsWith")

	condition := &model.TaggedUnion{Name: "Condition", Discriminator: "conditionType", Convention: naming.CamelCase}
	condition.Variants = []model.Variant{
		{Tag: "Boolean", Field: "condition_properties", Payload: model.NewStruct("BooleanCondition", naming.CamelCase,
			model.Req("operator", model.NewEnum("BooleanConditionSupportedOperator", naming.Verbatim, "And", "Or")),
			model.Req("inner_conditions", model.ListOf(condition)),
		)},
		{Tag: "PropertyArrayChanged", Field: "condition_properties", Payload: model.NewStruct("PropertyArrayChangedCondition", naming.CamelCase,
			model.Req("array_type", model.NewEnum("PropertyArrayChangedConditionSupportedArrayType", naming.Verbatim,
				"Alerts", "Comments", "Labels", "Tactics")),
			model.Req("change_type", model.NewEnum("PropertyArrayChangedConditionSupportedChangeType", naming.Verbatim, "Added")),
		)},
		{Tag: "PropertyChanged", Field: "condition_properties", Payload: model.NewStruct("PropertyChangedCondition", naming.CamelCase,
			model.Req("change_type", model.NewEnum("PropertyChangedConditionSupportedChangedType", naming.Verbatim,
				"ChangedFrom", "ChangedTo")),
			// misspelled key accepted by the deployed operator
			model.Req("propery_name", model.NewEnum("PropertyChangedConditionSupportedPropertyType", naming.Verbatim,
				"IncidentOwner", "IncidentSeverity", "IncidentStatus")),
			model.Req("operator", operator),
			model.Req("property_values", model.ListOf(model.Str())),
		)},
		{Tag: "PropertyArray", Field: "condition_properties", Payload: model.NewStruct("PropertyArrayValuesCondition", naming.CamelCase,
			model.Req("array_condition_type", model.NewEnum("PropertyArrayConditionSupportedArrayConditionType", naming.Verbatim, "AnyItem")),
			model.Req("array_type", model.NewEnum("ArrayConditionSupportedArrayType", naming.Verbatim,
				"CustomDetailValues", "CustomDetails")),
			model.Req("item_conditions", model.ListOf(condition)),
		)},
		{Tag: "Property", Field: "condition_properties", Payload: model.NewStruct("PropertyCondition", naming.CamelCase,
			model.Req("operator", operator),
			model.Req("property_name", model.NewEnum("PropertyConditionSupportedProperty", naming.Verbatim, supportedProperties...)),
			model.Req("property_values", model.ListOf(model.Str())),
		)},
	}

	action := &model.TaggedUnion{
		Name:          "Action",
		Discriminator: "actionType",
		Convention:    naming.CamelCase,
		Variants: []model.Variant{
			{Tag: "AddIncidentTask", Payload: model.NewStruct("AddIncidentTaskAction", naming.CamelCase,
				model.Req("action_configuration", model.NewStruct("AddIncidentTaskActionProperties", naming.CamelCase,
					model.Req("description", model.Str()),
					model.Req("title", model.Str()),
				)),
				model.Req("order", model.Int()),
			)},
			{Tag: "RunPlaybook", Payload: model.NewStruct("RunPlaybookAction", naming.CamelCase,
				model.Req("action_configuration", model.NewStruct("PlaybookActionProperties", naming.CamelCase,
					model.Req("logic_app_resource_id", model.Str()),
					model.Req("tenant_id", model.Str()),
				)),
				model.Req("order", model.Int()),
			)},
			{Tag: "ModifyProperties", Payload: model.NewStruct("ModifyPropertiesAction", naming.CamelCase,
				model.Req("action_configuration", incidentProperties()),
				model.Req("order", model.Int()),
			)},
		},
	}

	spec := model.NewStruct("MicrosoftSentinelAutomationRuleSpec", naming.CamelCase,
		model.Req("properties", model.NewStruct("Properties", naming.CamelCase,
			model.Req("actions", model.ListOf(action)),
			model.Req("display_name", model.Str()),
			model.Req("order", model.Int()),
			model.Req("triggering_logic", model.NewStruct("TriggeringLogic", naming.CamelCase,
				model.Req("conditions", model.ListOf(condition)),
				model.Req("expiration_time_utc", model.Str()),
				model.Req("is_enabled", model.Bool()),
				model.Req("triggers_on", model.NewEnum("TriggersOn", naming.Verbatim, "Incidents", "Alerts")),
				model.Req("triggers_when", model.NewEnum("TriggersWhen", naming.Verbatim, "Created", "Updated")),
			)),
		)),
	)

	d := descriptor("MicrosoftSentinelAutomationRule",
		passThrough("MicrosoftSentinelAutomationRuleCRDSpec"),
		model.NewStruct("MicrosoftSentinelAutomationRuleStatus", naming.Verbatim,
			model.Req("message", model.Str()),
			model.Req("deployed", model.Str()),
			model.Req("enabled", model.Str()),
		),
		"msautomation", "msautomations", "msautomationrule", "msautomationrules")
	d.PrinterColumns = []apiextensionsv1.CustomResourceColumnDefinition{
		column("Status", "Checks if the Automation Rule is deployed to Microsoft Sentinel", ".status.create_automation_rule.deployed"),
		column("Enabled", "Checks if the Automation Rule is enabled in Microsoft Sentinel", ".status.create_automation_rule.enabled"),
		column("Message", "Additional information about the deployment status", ".status.create_automation_rule.message"),
	}

	return Definition{
		Descriptor: d,
		Schemas: []Schema{
			{Name: d.Kind, Type: spec},
			envelope(d, spec),
		},
	}
}

func incidentProperties() *model.Struct {
	return model.NewStruct("IncidentPropertiesActionProperties", naming.CamelCase,
		model.Opt("classification", model.NewEnum("IncidentClassification", naming.Verbatim,
			"BenignPositive", "FalsePositive", "TruePositive", "Undetermined")),
		model.Opt("classification_comment", model.Str()),
		model.Opt("classification_reason", model.NewEnum("IncidentClassificationReason", naming.Verbatim,
			"InaccurateData", "IncorrectAlertLogic", "SuspiciousActivity", "SuspiciousButExpected")),
		model.Opt("labels", model.ListOf(model.NewStruct("IncidentLabel", naming.CamelCase,
			model.Req("label_name", model.Str()),
			model.Opt("label_type", model.NewEnum("LabelType", naming.Verbatim, "AutoAssigned", "User")),
		))),
		model.Opt("owner", model.NewStruct("IncidentOwnerInfo", naming.CamelCase,
			model.Req("assigned_to", model.Str()),
			model.Req("email", model.Str()),
			model.Req("object_id", model.Str()),
			model.Req("owner_type", model.NewEnum("OwnerType", naming.Verbatim, "Group", "Unknown", "User")),
			model.Req("user_principal_name", model.Str()),
		)),
		model.Opt("severity", model.NewEnum("IncidentSeverity", naming.Verbatim, "High", "Medium", "Low", "Informational")),
		model.Opt("status", model.NewEnum("IncidentStatus", naming.Verbatim, "Active", "Closed", "New")),
	)
}

var supportedProperties = []string{
	"AccountAadTenantId", "AccountAadUserId", "AccountNTDomain", "AccountName", "AccountObjectGuid",
	"AccountPUID", "AccountSid", "AccountUPNSuffix", "AlertAnalyticRuleIds", "AlertProductNames",
	"AzureResourceResourceId", "AzureResourceSubscriptionId", "CloudApplicationAppId",
	"CloudApplicationAppName", "DNSDomainName", "FileDirectory", "FileHashValue", "FileName",
	"HostAzureID", "HostNTDomain", "HostName", "HostNetBiosName", "HostOSVersion", "IPAddress",
	"IncidentCustomDetailsKey", "IncidentCustomDetailsValue", "IncidentDescription", "IncidentLabel",
	"IncidentProviderName", "IncidentRelatedAnalyticRuleIds", "IncidentSeverity", "IncidentStatus",
	"IncidentTactics", "IncidentTitle", "IncidentUpdatedBySource", "IoTDeviceId", "IoTDeviceModel",
	"IoTDeviceName", "IoTDeviceOperatingSystem", "IoTDeviceType", "IoTDeviceVendor",
	"MailMessageDeliveryAction", "MailMessageDeliveryLocation", "MailMessageP1Sender",
	"MailMessageP2Sender", "MailMessageRecipient", "MailMessageSenderIP", "MailMessageSubject",
	"MailboxDisplayName", "MailboxPrimaryAddress", "MailboxUPN", "MalwareCategory", "MalwareName",
	"ProcessCommandLine", "ProcessId", "RegistryKey", "RegistryValueData", "Url",
}
