// Package complexity computes McCabe cyclomatic complexity for Python
// functions, methods and classes.
package complexity

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/panbanda/pymetrics/internal/fileproc"
	"github.com/panbanda/pymetrics/pkg/analyzer"
	"github.com/panbanda/pymetrics/pkg/ast"
	"github.com/panbanda/pymetrics/pkg/parser"
)

// Ensure Analyzer implements the analyzer contracts.
var (
	_ analyzer.FileAnalyzer[*Analysis]    = (*Analyzer)(nil)
	_ analyzer.ModuleAnalyzer[FileResult] = (*Analyzer)(nil)
)

// Analyzer computes cyclomatic complexity over Python files.
type Analyzer struct {
	parser      *parser.Parser
	maxFileSize int64
	visitorOpts []VisitorOption
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithVisitorOptions passes opts to every top-level visitor.
func WithVisitorOptions(opts ...VisitorOption) Option {
	return func(a *Analyzer) {
		a.visitorOpts = append(a.visitorOpts, opts...)
	}
}

// New creates a new complexity analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeModule computes the blocks of an already parsed module.
func (a *Analyzer) AnalyzeModule(path string, mod *ast.Module) FileResult {
	v := NewVisitor(a.visitorOpts...)
	v.Visit(mod)

	return FileResult{
		Path:      path,
		Functions: v.Functions,
		Classes:   v.Classes,
		Total:     v.TotalComplexity(),
		Average:   AverageComplexity(v.Blocks()),
	}
}

// AnalyzeSource computes the blocks of in-memory code.
func (a *Analyzer) AnalyzeSource(path string, source []byte) (*FileResult, error) {
	result, err := a.fileParser().Parse(source, path)
	if err != nil {
		return nil, err
	}
	fr := a.AnalyzeModule(path, result.Module)
	return &fr, nil
}

// AnalyzeFile analyzes complexity for a single file.
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

// Analyze analyzes all files in a project using parallel processing.
// Progress is tracked via context using analyzer.WithTracker. Files that
// fail to parse are left out of the analysis and reported through the
// returned *fileproc.ProcessingErrors; the analysis is valid either way.
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

// BuildAnalysis constructs an Analysis from file results.
func BuildAnalysis(results []FileResult) *Analysis {
	analysis := &Analysis{
		Files:   results,
		Summary: Summary{Ranks: make(map[string]int)},
	}
	if analysis.Files == nil {
		analysis.Files = []FileResult{}
	}
	analysis.Summary.TotalFiles = len(results)

	var scores []float64
	for _, fr := range results {
		for _, b := range fr.Blocks() {
			cc := b.Cyclomatic()
			scores = append(scores, float64(cc))
			analysis.Summary.Ranks[Rank(cc)]++
			analysis.Summary.MaxComplexity = max(analysis.Summary.MaxComplexity, cc)
		}
	}

	analysis.Summary.TotalBlocks = len(scores)
	if len(scores) == 0 {
		return analysis
	}

	sort.Float64s(scores)
	analysis.Summary.AvgComplexity = stat.Mean(scores, nil)
	analysis.Summary.P50Complexity = stat.Quantile(0.5, stat.Empirical, scores, nil)
	analysis.Summary.P90Complexity = stat.Quantile(0.9, stat.Empirical, scores, nil)

	return analysis
}
