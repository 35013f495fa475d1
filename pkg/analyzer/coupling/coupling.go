// Package coupling computes CBO (Coupling Between Objects) for Python
// classes.
//
// The computation runs in two passes over the same tree. Discover collects
// every class name and import alias; a Visitor built from that Discovery
// then records, per class, the class-like names referenced through
// inheritance, annotations, constructor calls and typed self attributes.
package coupling

import (
	"context"
	"time"

	"github.com/panbanda/pymetrics/internal/fileproc"
	"github.com/panbanda/pymetrics/pkg/analyzer"
	"github.com/panbanda/pymetrics/pkg/ast"
	"github.com/panbanda/pymetrics/pkg/parser"
)

var (
	_ analyzer.FileAnalyzer[*Analysis]    = (*Analyzer)(nil)
	_ analyzer.ModuleAnalyzer[FileResult] = (*Analyzer)(nil)
)

// Analyze runs both passes over root.
func Analyze(root ast.Node) map[string]Coupling {
	v := NewVisitor(Discover(root))
	v.Visit(root)
	return v.Result()
}

// Analyzer computes CBO over Python files. Each file is analyzed on its
// own; names are never resolved across files.
type Analyzer struct {
	parser      *parser.Parser
	maxFileSize int64
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// New creates a new coupling analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeModule computes the coupling of each class in a parsed module.
func (a *Analyzer) AnalyzeModule(path string, mod *ast.Module) FileResult {
	v := NewVisitor(Discover(mod))
	v.Visit(mod)

	classes := v.Classes()
	for i := range classes {
		classes[i].Path = path
	}
	return FileResult{Path: path, Classes: classes}
}

// AnalyzeFile analyzes a single file.
func (a *Analyzer) AnalyzeFile(path string) (*FileResult, error) {
	return a.analyzeFile(a.fileParser(), path)
}

func (a *Analyzer) analyzeFile(psr *parser.Parser, path string) (*FileResult, error) {
	result, err := psr.ParseFile(path)
	if err != nil {
		return nil, err
	}
	fr := a.AnalyzeModule(path, result.Module)
	return &fr, nil
}

// Analyze computes the coupling of all files in parallel. Failed files are
// reported through the returned *fileproc.ProcessingErrors.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	results, errs := fileproc.MapFilesWithSizeLimit(ctx, files, a.maxFileSize, func(psr *parser.Parser, path string) (FileResult, error) {
		fr, err := a.analyzeFile(psr, path)
		if err != nil {
			return FileResult{}, err
		}
		return *fr, nil
	})

	analysis := BuildAnalysis(results)
	if err := ctx.Err(); err != nil {
		return analysis, err
	}
	if errs != nil {
		return analysis, errs
	}
	return analysis, nil
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {
	if a.parser != nil {
		a.parser.Close()
		a.parser = nil
	}
}

// fileParser returns the parser used by the single-file methods, creating
// it on first use. AnalyzeModule and Analyze never need it.
func (a *Analyzer) fileParser() *parser.Parser {
	if a.parser == nil {
		a.parser = parser.New()
	}
	return a.parser
}

// BuildAnalysis flattens file results into a sorted analysis.
func BuildAnalysis(results []FileResult) *Analysis {
	analysis := &Analysis{
		GeneratedAt: time.Now(),
		Classes:     make([]ClassMetrics, 0),
	}
	for _, fr := range results {
		analysis.Classes = append(analysis.Classes, fr.Classes...)
	}
	analysis.SortByCBO()
	analysis.CalculateSummary()
	return analysis
}
