// Package render persists generated documents.
package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Kind selects the encoding and location of an artifact.
type Kind int

const (
	// CRDYAML is a CustomResourceDefinition manifest written as YAML.
	CRDYAML Kind = iota
	// JSONSchema is a standalone schema written as indented JSON.
	JSONSchema
)

func (k Kind) String() string {
	if k == CRDYAML {
		return "crd"
	}
	return "jsonschema"
}

func (k Kind) dir() string {
	if k == CRDYAML {
		return "crds"
	}
	return "jsonschema"
}

func (k Kind) ext() string {
	if k == CRDYAML {
		return ".yaml"
	}
	return ".json"
}

// Artifact is a finished document and the name it is stored under.
type Artifact struct {
	Name string
	Kind Kind
	Doc  any
}

// ArtifactWriteError reports a document that could not be persisted.
type ArtifactWriteError struct {
	Path string
	Err  error
}

func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("error writing %s: %v", e.Path, e.Err)
}

func (e *ArtifactWriteError) Unwrap() error {
	return e.Err
}

// Writer stores artifacts below Dir, CRDs in crds/ and schemas in jsonschema/.
type Writer struct {
	FS  afero.Fs
	Dir string
}

// NewWriter returns a writer on the OS file system.
func NewWriter(dir string) *Writer {
	return &Writer{FS: afero.NewOsFs(), Dir: dir}
}

// Path returns the location of a.
func (w *Writer) Path(a Artifact) string {
	return filepath.Join(w.Dir, a.Kind.dir(), a.Name+a.Kind.ext())
}

// Write encodes and stores a, returning its path.
func (w *Writer) Write(a Artifact) (string, error) {
	path := w.Path(a)
	content, err := Encode(a)
	if err != nil {
		return path, fmt.Errorf("error encoding %s: %w", a.Name, err)
	}

	// Create the directory if it doesn't exist
	if err := w.FS.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return path, &ArtifactWriteError{Path: path, Err: err}
	}
	if err := afero.WriteFile(w.FS, path, content, 0o644); err != nil {
		return path, &ArtifactWriteError{Path: path, Err: err}
	}

	slog.With("artifact", a.Kind.String(), "name", a.Name, "path", path).Info("Successfully generated artifact")
	return path, nil
}

// Encode returns the file content of a.
func Encode(a Artifact) ([]byte, error) {
	if a.Kind == JSONSchema {
		b, err := json.MarshalIndent(a.Doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}
	return crdYAML(a.Doc)
}

type obj = map[string]any

// crdYAML drops the fields the API server populates before encoding.
func crdYAML(doc any) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	crd := make(obj)
	if err := json.Unmarshal(data, &crd); err != nil {
		return nil, err
	}
	delete(crd, "status")
	if metadata, ok := crd["metadata"].(obj); ok {
		delete(metadata, "creationTimestamp")
	}
	return yaml.Marshal(crd)
}
