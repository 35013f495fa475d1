// Package analyzer holds the contracts shared by the metric packages.
//
// Each metric package (complexity, halstead, cohesion, coupling) exposes a
// visitor that works on a single ast.Module and an Analyzer that runs the
// visitor over files in parallel.
package analyzer

import (
	"context"

	"github.com/panbanda/pymetrics/pkg/ast"
)

// FileAnalyzer is implemented by every metric analyzer that reads files
// from disk.
type FileAnalyzer[T any] interface {
	// Analyze processes a collection of files and returns the analysis result.
	// The context carries cancellation and an optional progress Tracker.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}

// ModuleAnalyzer computes the per-file result of a metric from a module that
// has already been parsed. It lets one parse feed several metrics.
type ModuleAnalyzer[R any] interface {
	AnalyzeModule(path string, mod *ast.Module) R
}
