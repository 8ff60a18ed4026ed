package resources

import (
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/buildrlabs/crd-schema-gen/internal/model"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
)

// AnalyticRule is a Microsoft Sentinel scheduled analytic rule.
func AnalyticRule() Definition {
	severity := model.NewEnum("Severity", naming.PascalCase, "High", "Informational", "Low", "Medium")
	entityType := model.NewEnum("EntityType", naming.Verbatim,
		"Account", "AzureResource", "CloudApplication", "DNS", "File", "FileHash", "Host", "IP",
		"MailCluster", "MailMessage", "Mailbox", "Malware", "Process", "RegistryKey", "RegistryValue",
		"SecurityGroup", "SubmissionMail", "URL",
	)

	alertPropertyMapping := model.NewStruct("AlertPropertyMapping", naming.CamelCase,
		model.Req("alert_property", model.NewEnum("AlertProperty", naming.PascalCase,
			"AlertLink", "ConfidenceLevel", "ConfidenceScore", "ExtendedLinks", "ProductComponentName",
			"ProductName", "ProviderName", "RemediationSteps", "Techniques",
		)),
		model.Req("value", model.Str()),
	)
	alertDetailsOverride := model.NewStruct("AlertDetailsOverride", naming.CamelCase,
		model.Opt("alert_description_format", model.Str()),
		model.Opt("alert_display_name_format", model.Str()),
		model.Opt("alert_severity_column_name", model.Str()),
		model.Opt("alert_tactics_column_name", model.Str()),
		model.Opt("alert_dynamic_properties", model.ListOf(alertPropertyMapping)),
	)
	entityMapping := model.NewStruct("EntityMapping", naming.CamelCase,
		model.Req("entity_type", entityType),
		model.Req("field_mappings", model.ListOf(model.NewStruct("FieldMapping", naming.CamelCase,
			model.Req("column_name", model.Str()),
			model.Req("identifier", model.Str()),
		))),
	)
	groupingConfiguration := model.NewStruct("GroupingConfiguration", naming.CamelCase,
		model.Req("enabled", model.Bool()),
		model.Req("group_by_alert_details", model.ListOf(model.NewStruct("AlertDetail", naming.CamelCase,
			model.Req("display_name", model.Str()),
			model.Req("severity", severity),
		))),
		model.Req("group_by_custom_details", model.ListOf(model.Str())),
		model.Req("group_by_entities", model.ListOf(entityType)),
		model.Req("lookback_duration", model.Str()),
		model.Req("matching_method", model.NewEnum("MatchingMethod", naming.PascalCase, "AllEntities", "AnyAlert", "Selected")),
		model.Req("reopen_closed_incident", model.Bool()),
	)

	properties := model.NewStruct("Properties", naming.CamelCase,
		model.Req("display_name", model.Str()),
		model.Req("enabled", model.Bool()),
		model.Req("query", model.Str()),
		model.Req("query_frequency", model.Str()),
		model.Req("query_period", model.Str()),
		model.Req("severity", severity),
		model.Req("suppression_duration", model.Str()),
		model.Req("suppression_enabled", model.Bool()),
		model.Req("trigger_operator", model.NewEnum("TriggerOperator", naming.PascalCase, "Equal", "GreaterThan", "LessThan", "NotEqual")),
		model.Req("trigger_threshold", model.Int()),
		model.Opt("alert_details_override", alertDetailsOverride),
		model.Opt("alert_rule_template_name", model.Str()),
		model.Opt("custom_details", model.MapOf(model.JSON())),
		model.Opt("description", model.Str()),
		model.Opt("entity_mappings", model.ListOf(entityMapping)),
		model.Opt("event_grouping_settings", model.NewStruct("EventGroupingSettings", naming.CamelCase,
			model.Req("aggregation_kind", model.NewEnum("AggregationKind", naming.PascalCase, "AlertPerResult", "SingleAlert")),
		)),
		model.Opt("incident_configuration", model.NewStruct("IncidentConfiguration", naming.CamelCase,
			model.Req("create_incident", model.Bool()),
			model.Req("grouping_configuration", groupingConfiguration),
		)),
		model.Opt("tactics", model.ListOf(model.NewEnum("AttackTactic", naming.PascalCase,
			"Collection", "CommandAndControl", "CredentialAccess", "DefenseEvasion", "Discovery", "Execution",
			"Exfiltration", "Impact", "ImpairProcessControl", "InhibitResponseFunction", "InitialAccess",
			"LateralMovement", "Persistence", "PreAttack", "PrivilegeEscalation", "Reconnaissance",
			"ResourceDevelopment",
		))),
		model.Opt("techniques", model.ListOf(model.Str())),
		model.Opt("template_version", model.Str()),
	)

	spec := model.NewStruct("MicrosoftSentinelAnalyticRuleSpec", naming.CamelCase,
		model.Req("properties", properties),
		model.Opt("kind", model.Str()).WithDefault(`"Scheduled"`),
	)
	status := model.NewStruct("MicrosoftSentinelAnalyticRuleStatus", naming.Verbatim,
		model.Req("create_analytic_rule", model.NewStruct("CreateAnalyticRuleStatusProperties", naming.Verbatim,
			model.Req("message", model.Str()),
			model.Req("deployed", model.Str()),
			model.Req("enabled", model.Str()),
			model.Req("rule_type", model.Str()),
		)),
	)

	d := descriptor("MicrosoftSentinelAnalyticRule", spec, status,
		"msanalytic", "msanalytics", "msanalyticrule", "msanalyticrules")
	d.PrinterColumns = []apiextensionsv1.CustomResourceColumnDefinition{
		column("Status", "Checks if the Detection Rule is deployed to Microsoft Sentinel", ".status.create_analytic_rule.deployed"),
		column("Enabled", "Checks if the Detection Rule is enabled in Microsoft Sentinel", ".status.create_analytic_rule.enabled"),
		column("Message", "Additional information about the deployment status", ".status.create_analytic_rule.message"),
		column("Rule type", "The type of Microsoft Sentinel Detection Rule", ".status.create_analytic_rule.rule_type"),
	}

	return Definition{
		Descriptor: d,
		Schemas:    []Schema{envelope(d, spec)},
	}
}
