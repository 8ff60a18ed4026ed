//go:build generate
// +build generate

// regenerate the committed artifacts
//go:generate go run ./cmd/crd-schema-gen generate --output generated --stamp-revision

// fail if the committed artifacts drifted
//go:generate go run ./cmd/crd-schema-gen check --output generated

package gen
