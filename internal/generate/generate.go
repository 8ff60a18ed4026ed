// Package generate runs the per resource pipelines: build the CRD and the
// JSON Schemas of a definition, then write them.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cilium/workerpool"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/buildrlabs/crd-schema-gen/internal/crd"
	"github.com/buildrlabs/crd-schema-gen/internal/naming"
	"github.com/buildrlabs/crd-schema-gen/internal/render"
	"github.com/buildrlabs/crd-schema-gen/internal/resources"
	"github.com/buildrlabs/crd-schema-gen/internal/schema"
)

// ErrSkipped is the result of resources not attempted after a failure in
// fail fast mode.
var ErrSkipped = errors.New("skipped after an earlier failure")

// Writer persists artifacts.
type Writer interface {
	Write(a render.Artifact) (string, error)
}

// Options control a run.
type Options struct {
	// Convention applies to structs that don't set their own.
	Convention naming.Convention
	// Concurrency bounds the resources processed in parallel; values below
	// one mean sequential.
	Concurrency int
	// FailFast skips the resources not yet started once one has failed.
	FailFast bool
	// Annotations are added to every CRD.
	Annotations map[string]string
}

// Result is the outcome of one resource.
type Result struct {
	Kind  string
	Paths []string
	Err   error
}

// Report holds the results of a run in definition order.
type Report struct {
	Results []Result
}

// Err aggregates the errors of all failed resources.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Kind, res.Err))
		}
	}
	return utilerrors.NewAggregate(errs)
}

// Failed returns the kinds of the failed resources.
func (r Report) Failed() []string {
	var kinds []string
	for _, res := range r.Results {
		if res.Err != nil {
			kinds = append(kinds, res.Kind)
		}
	}
	return kinds
}

// Paths returns the paths of all written artifacts.
func (r Report) Paths() []string {
	var paths []string
	for _, res := range r.Results {
		paths = append(paths, res.Paths...)
	}
	return paths
}

// Artifacts builds the CRD and JSON Schemas of def.
func Artifacts(def resources.Definition, opts Options) ([]render.Artifact, error) {
	manifest, err := crd.Build(def.Descriptor, opts.Convention, crd.WithAnnotations(opts.Annotations))
	if err != nil {
		return nil, err
	}
	artifacts := []render.Artifact{{Name: def.Kind, Kind: render.CRDYAML, Doc: manifest}}
	for _, s := range def.Schemas {
		doc, err := schema.Document(s.Name, s.Type, opts.Convention)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, render.Artifact{Name: s.Name, Kind: render.JSONSchema, Doc: doc})
	}
	return artifacts, nil
}

// Run generates the artifacts of every definition. A failing resource never
// prevents the others from being written, and a failing artifact never
// prevents the other artifacts of its resource from being written.
func Run(ctx context.Context, w Writer, defs []resources.Definition, opts Options) Report {
	report := Report{Results: make([]Result, len(defs))}
	workers := max(opts.Concurrency, 1)

	wp := workerpool.New(workers)
	defer wp.Close()

	var failed atomic.Bool
	for i, def := range defs {
		report.Results[i].Kind = def.Kind
		err := wp.Submit(def.Kind, func(context.Context) error {
			res := &report.Results[i]
			switch {
			case ctx.Err() != nil:
				res.Err = ctx.Err()
			case opts.FailFast && failed.Load():
				res.Err = ErrSkipped
			default:
				res.Paths, res.Err = run(w, def, opts)
			}
			if res.Err != nil && !errors.Is(res.Err, ErrSkipped) {
				failed.Store(true)
				slog.Error("Failed to generate resource", "kind", def.Kind, "error", res.Err)
			}
			return res.Err
		})
		if err != nil {
			report.Results[i].Err = fmt.Errorf("failed to schedule: %w", err)
		}
	}

	if _, err := wp.Drain(); err != nil {
		slog.Error("Failed to drain the worker pool", "error", err)
	}
	return report
}

func run(w Writer, def resources.Definition, opts Options) ([]string, error) {
	artifacts, err := Artifacts(def, opts)
	if err != nil {
		return nil, err
	}

	var paths []string
	var errs []error
	for _, a := range artifacts {
		path, err := w.Write(a)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	if len(errs) == 1 {
		return paths, errs[0]
	}
	return paths, utilerrors.NewAggregate(errs)
}
