package resources

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/buildrlabs/crd-schema-gen/internal/crd"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
	"github.com/buildrlabs/crd-schema-gen/internal/schema"
)

func TestAllBuild(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Kind, func(t *testing.T) {
			c, err := crd.Build(d.Descriptor, naming.CamelCase)
			require.NoError(t, err)
			assert.Equal(t, Group, c.Spec.Group)
			assert.Equal(t, apiextensionsv1.NamespaceScoped, c.Spec.Scope)
			assert.NotEmpty(t, c.Spec.Names.ShortNames)

			require.NotEmpty(t, d.Schemas)
			for _, s := range d.Schemas {
				doc, err := schema.Document(s.Name, s.Type, naming.CamelCase)
				require.NoError(t, err, s.Name)
				assert.Equal(t, s.Name, doc.Title)
			}
			assert.Equal(t, d.Kind+"CRD", d.Schemas[len(d.Schemas)-1].Name)
		})
	}
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{
		"MicrosoftSentinelAnalyticRule",
		"MicrosoftSentinelAutomationRule",
		"MicrosoftSentinelWorkbook",
		"MicrosoftSentinelMacro",
		"SplunkDetectionRule",
	}, Kinds())
}

func TestNames(t *testing.T) {
	want := map[string]string{
		"MicrosoftSentinelAnalyticRule":   "microsoftsentinelanalyticrules.buildrlabs.io",
		"MicrosoftSentinelAutomationRule": "microsoftsentinelautomationrules.buildrlabs.io",
		"MicrosoftSentinelWorkbook":       "microsoftsentinelworkbooks.buildrlabs.io",
		"MicrosoftSentinelMacro":          "microsoftsentinelmacros.buildrlabs.io",
		"SplunkDetectionRule":             "splunkdetectionrules.buildrlabs.io",
	}
	for _, d := range All() {
		c, err := crd.Build(d.Descriptor, naming.CamelCase)
		require.NoError(t, err, d.Kind)
		assert.Equal(t, want[d.Kind], d.Name(), d.Kind)
		assert.Equal(t, want[d.Kind], c.Name, d.Kind)
		assert.Equal(t, want[d.Kind], c.Spec.Names.Plural+"."+Group, d.Kind)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"MicrosoftSentinelMacro", "microsoftsentinelmacro", "microsoftsentinelmacros", "msm"} {
		d, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, "MicrosoftSentinelMacro", d.Kind)
	}
	_, err := Lookup("Unknown")
	require.ErrorContains(t, err, `unknown resource "Unknown"`)
}

func TestSelect(t *testing.T) {
	defs, err := Select(nil)
	require.NoError(t, err)
	assert.Len(t, defs, 5)

	defs, err = Select([]string{"msw", "MicrosoftSentinelMacro", "msws"})
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "MicrosoftSentinelWorkbook", defs[0].Kind)
	assert.Equal(t, "MicrosoftSentinelMacro", defs[1].Kind)

	_, err = Select([]string{"msm", "nope"})
	require.Error(t, err)
}

func TestAnalyticRule(t *testing.T) {
	d := AnalyticRule()
	c, err := crd.Build(d.Descriptor, naming.CamelCase)
	require.NoError(t, err)
	assert.Equal(t, "microsoftsentinelanalyticrules.buildrlabs.io", c.Name)
	assert.Equal(t, []string{"msanalytic", "msanalytics", "msanalyticrule", "msanalyticrules"}, c.Spec.Names.ShortNames)

	v := c.Spec.Versions[0]
	require.Len(t, v.AdditionalPrinterColumns, 4)
	assert.Equal(t, ".status.create_analytic_rule.rule_type", v.AdditionalPrinterColumns[3].JSONPath)
	require.NotNil(t, v.Subresources)
	assert.NotNil(t, v.Subresources.Status)

	root := v.Schema.OpenAPIV3Schema
	spec := root.Properties["spec"]
	assert.Equal(t, []string{"properties"}, spec.Required)
	assert.JSONEq(t, `"Scheduled"`, string(spec.Properties["kind"].Default.Raw))

	props := spec.Properties["properties"]
	assert.Contains(t, props.Required, "triggerThreshold")
	assert.NotContains(t, props.Required, "description")
	assert.Equal(t, "integer", props.Properties["triggerThreshold"].Type)
	custom := props.Properties["customDetails"]
	assert.Equal(t, "object", custom.Type)
	assert.Empty(t, custom.AdditionalProperties.Schema.Type)

	status := root.Properties["status"]
	assert.True(t, status.Nullable)
	assert.Equal(t, []string{"message", "deployed", "enabled", "rule_type"},
		status.Properties["create_analytic_rule"].Required)
}

func TestAutomationRule(t *testing.T) {
	d := AutomationRule()
	c, err := crd.Build(d.Descriptor, naming.CamelCase)
	require.NoError(t, err)
	root := c.Spec.Versions[0].Schema.OpenAPIV3Schema
	spec := root.Properties["spec"]
	require.NotNil(t, spec.XPreserveUnknownFields)
	assert.True(t, *spec.XPreserveUnknownFields)
	assert.Empty(t, spec.Properties)

	status := root.Properties["status"]
	assert.Nil(t, status.XPreserveUnknownFields)
	assert.True(t, status.Nullable)
	assert.Equal(t, []string{"message", "deployed", "enabled"}, status.Required)
	assert.Len(t, status.Properties, 3)
	assert.Equal(t, "string", status.Properties["deployed"].Type)
	assert.NotNil(t, c.Spec.Versions[0].Subresources.Status)

	doc, err := schema.Document(d.Schemas[0].Name, d.Schemas[0].Type, naming.CamelCase)
	require.NoError(t, err)
	require.Contains(t, doc.Definitions, "Condition")
	assert.Len(t, doc.Definitions["Condition"].OneOf, 5)

	actions := doc.Properties["properties"].Properties["actions"].Items.Schema
	require.Len(t, actions.OneOf, 3)
	for _, branch := range actions.OneOf {
		assert.Equal(t, []string{"actionType", "actionConfiguration", "order"}, branch.Required)
	}

	changed := doc.Definitions["Condition"].OneOf[2].Properties["conditionProperties"]
	assert.Contains(t, changed.Properties, "properyName")
}

func TestWorkbook(t *testing.T) {
	d := Workbook()
	c, err := crd.Build(d.Descriptor, naming.CamelCase)
	require.NoError(t, err)
	status := c.Spec.Versions[0].Schema.OpenAPIV3Schema.Properties["status"]
	assert.Nil(t, status.XPreserveUnknownFields)
	assert.Equal(t, []string{"message"}, status.Required)
	assert.Equal(t, "string", status.Properties["message"].Type)

	doc, err := schema.Document(d.Schemas[0].Name, d.Schemas[0].Type, naming.CamelCase)
	require.NoError(t, err)

	enumOf := func(s apiextensionsv1.JSONSchemaProps) []string {
		var out []string
		for _, e := range s.Enum {
			var v string
			require.NoError(t, json.Unmarshal(e.Raw, &v))
			out = append(out, v)
		}
		return out
	}
	assert.Equal(t, []string{"shared", "user"}, enumOf(doc.Properties["kind"]))
	identity := doc.Properties["identity"]
	assert.Equal(t, []string{"SystemAssigned", "SystemAssigned,UserAssigned", "UserAssigned", "None"},
		enumOf(identity.Properties["type"]))
	assert.Equal(t, []string{"clientId", "principalId"},
		identity.Properties["userAssignedIdentities"].AdditionalProperties.Schema.Required)
	assert.Equal(t, []string{"location", "properties", "tags", "kind", "identity"}, doc.Required)
}

func TestSplunkDetectionRule(t *testing.T) {
	c, err := crd.Build(SplunkDetectionRule().Descriptor, naming.CamelCase)
	require.NoError(t, err)
	spec := c.Spec.Versions[0].Schema.OpenAPIV3Schema.Properties["spec"]
	assert.Equal(t, []string{"name", "description", "search"}, spec.Required)
	require.NotNil(t, spec.XPreserveUnknownFields)
	assert.Nil(t, c.Spec.Versions[0].Subresources)

	c, err = crd.Build(SplunkDetectionRule().Descriptor, naming.PascalCase)
	require.NoError(t, err)
	spec = c.Spec.Versions[0].Schema.OpenAPIV3Schema.Properties["spec"]
	assert.Equal(t, []string{"Name", "Description", "Search"}, spec.Required)
}
