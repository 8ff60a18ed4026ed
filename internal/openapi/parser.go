package openapi

import (
	"fmt"

	"github.com/spf13/afero"
	apiv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/yaml"
)

// ReadCRD decodes a CRD manifest.
func ReadCRD(data []byte) (*apiv1.CustomResourceDefinition, error) {
	var crd apiv1.CustomResourceDefinition
	if err := yaml.Unmarshal(data, &crd); err != nil {
		return nil, fmt.Errorf("error parsing crd: %w", err)
	}
	if crd.Kind != "CustomResourceDefinition" {
		return nil, fmt.Errorf("expected kind CustomResourceDefinition, got %q", crd.Kind)
	}
	return &crd, nil
}

// LoadCRD reads and decodes the CRD manifest at path.
func LoadCRD(fs afero.Fs, path string) (*apiv1.CustomResourceDefinition, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	crd, err := ReadCRD(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return crd, nil
}

// ExtractSchema returns the schema of the storage version, or of
// desiredVersion when set.
func ExtractSchema(
	crd *apiv1.CustomResourceDefinition,
	desiredVersion string,
) (schema *apiv1.JSONSchemaProps, version string, err error) {
	for _, v := range crd.Spec.Versions {
		if (desiredVersion == "" && !v.Storage) || (desiredVersion != "" && desiredVersion != v.Name) {
			continue
		}
		if v.Schema == nil || v.Schema.OpenAPIV3Schema == nil {
			return nil, v.Name, fmt.Errorf("version %q of %s has no schema", v.Name, crd.Name)
		}
		return v.Schema.OpenAPIV3Schema, v.Name, nil
	}

	return nil, "", fmt.Errorf("could not find desired version %q in CRD %s", desiredVersion, crd.Name)
}
