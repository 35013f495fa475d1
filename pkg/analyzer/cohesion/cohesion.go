// Package cohesion computes LCOM (Lack of Cohesion in Methods) for Python
// classes from the self attributes each method touches.
package cohesion

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

// Analyzer computes LCOM over Python files.
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

// New creates a new cohesion analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeModule scores the classes of a parsed module.
func (a *Analyzer) AnalyzeModule(path string, mod *ast.Module) FileResult {
	v := NewVisitor()
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

// Analyze scores the classes of all files in parallel. Failed files are
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
	analysis.SortByLCOM()
	analysis.CalculateSummary()
	return analysis
}
