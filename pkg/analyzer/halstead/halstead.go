package halstead

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/panbanda/pymetrics/internal/fileproc"
	"github.com/panbanda/pymetrics/pkg/analyzer"
	"github.com/panbanda/pymetrics/pkg/ast"
	"github.com/panbanda/pymetrics/pkg/parser"
)

var (
	_ analyzer.FileAnalyzer[*Analysis]    = (*Analyzer)(nil)
	_ analyzer.ModuleAnalyzer[FileResult] = (*Analyzer)(nil)
)

// Analyzer computes Halstead metrics over Python files.
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

// New creates a new Halstead analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Visit returns the report of the whole tree and one per function.
func Visit(root ast.Node) (Report, []FunctionReport) {
	v := NewVisitor("")
	v.Visit(root)

	functions := make([]FunctionReport, 0, len(v.FunctionVisitors))
	for _, fv := range v.FunctionVisitors {
		functions = append(functions, FunctionReport{Name: fv.Context, Report: ReportOf(fv)})
	}
	return ReportOf(v), functions
}

// AnalyzeModule computes the reports of a parsed module.
func (a *Analyzer) AnalyzeModule(path string, mod *ast.Module) FileResult {
	total, functions := Visit(mod)
	return FileResult{Path: path, Total: total, Functions: functions}
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

// Analyze analyzes all files in parallel. Failed files are reported through
// the returned *fileproc.ProcessingErrors.
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

// BuildAnalysis aggregates file results into a project summary.
func BuildAnalysis(results []FileResult) *Analysis {
	if results == nil {
		results = []FileResult{}
	}
	analysis := &Analysis{Files: results}
	analysis.Summary.TotalFiles = len(results)
	if len(results) == 0 {
		return analysis
	}

	volumes := make([]float64, 0, len(results))
	for _, fr := range results {
		analysis.Summary.Volume += fr.Total.Volume
		analysis.Summary.Effort += fr.Total.Effort
		analysis.Summary.Bugs += fr.Total.Bugs
		volumes = append(volumes, fr.Total.Volume)
	}

	sort.Float64s(volumes)
	analysis.Summary.AvgVolume = stat.Mean(volumes, nil)
	analysis.Summary.P90Volume = stat.Quantile(0.9, stat.Empirical, volumes, nil)

	return analysis
}
