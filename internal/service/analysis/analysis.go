// Package analysis orchestrates a full metrics run: each file is parsed
// once and the parsed module feeds every metric analyzer.
package analysis

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/panbanda/pymetrics/internal/cache"
	"github.com/panbanda/pymetrics/internal/fileproc"
	"github.com/panbanda/pymetrics/pkg/analyzer/cohesion"
	"github.com/panbanda/pymetrics/pkg/analyzer/complexity"
	"github.com/panbanda/pymetrics/pkg/analyzer/coupling"
	"github.com/panbanda/pymetrics/pkg/analyzer/halstead"
	"github.com/panbanda/pymetrics/pkg/ast"
	"github.com/panbanda/pymetrics/pkg/config"
	"github.com/panbanda/pymetrics/pkg/parser"
)

// Service orchestrates code analysis operations.
type Service struct {
	config      *config.Config
	cache       *cache.Cache
	maxFileSize int64
	workers     int

	complexity *complexity.Analyzer
	halstead   *halstead.Analyzer
	cohesion   *cohesion.Analyzer
	coupling   *coupling.Analyzer
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache serves unchanged files from c.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithMaxFileSize skips files larger than maxSize bytes (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(s *Service) {
		s.maxFileSize = maxSize
	}
}

// WithWorkers sets the number of files analyzed concurrently. Zero or less
// uses the fileproc default.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = n
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}

	var visitorOpts []complexity.VisitorOption
	if s.config.Analysis.NoAssert {
		visitorOpts = append(visitorOpts, complexity.WithNoAssert())
	}
	s.complexity = complexity.New(complexity.WithVisitorOptions(visitorOpts...))
	s.halstead = halstead.New()
	s.cohesion = cohesion.New()
	s.coupling = coupling.New()
	return s
}

// CacheVersion identifies the results a cache may hold for cfg. It changes
// whenever the tree vocabulary or an option affecting the per-file results
// changes.
func CacheVersion(cfg *config.Config) string {
	return fmt.Sprintf("%s;no_assert=%t", ast.Vocabulary, cfg.Analysis.NoAssert)
}

// CacheVersion is CacheVersion of the service's config.
func (s *Service) CacheVersion() string {
	return CacheVersion(s.config)
}

// FileReport holds every metric of one file.
type FileReport struct {
	Path       string                `json:"path"`
	Complexity complexity.FileResult `json:"complexity"`
	Halstead   halstead.FileResult   `json:"halstead"`
	Cohesion   cohesion.FileResult   `json:"cohesion"`
	Coupling   coupling.FileResult   `json:"coupling"`
}

// Result is the outcome of a full run.
type Result struct {
	Files      []FileReport         `json:"-"`
	Complexity *complexity.Analysis `json:"complexity"`
	Halstead   *halstead.Analysis   `json:"halstead"`
	Cohesion   *cohesion.Analysis   `json:"cohesion"`
	Coupling   *coupling.Analysis   `json:"coupling"`
	CacheHits  int                  `json:"cache_hits"`
}

// AnalyzeModule computes every metric of an already parsed module.
func (s *Service) AnalyzeModule(path string, mod *ast.Module) FileReport {
	return FileReport{
		Path:       path,
		Complexity: s.complexity.AnalyzeModule(path, mod),
		Halstead:   s.halstead.AnalyzeModule(path, mod),
		Cohesion:   s.cohesion.AnalyzeModule(path, mod),
		Coupling:   s.coupling.AnalyzeModule(path, mod),
	}
}

// Analyze runs every metric over files in parallel. Progress is tracked via
// the context's analyzer.Tracker. Files that fail are left out and
// reported through the returned *fileproc.ProcessingErrors; the result is
// valid either way.
func (s *Service) Analyze(ctx context.Context, files []string) (*Result, error) {
	var hits atomic.Int64

	reports, errs := fileproc.MapFilesN(ctx, files, s.workers, s.maxFileSize, func(psr *parser.Parser, path string) (FileReport, error) {
		report, hit, err := s.analyzeFile(psr, path)
		if hit {
			hits.Add(1)
		}
		return report, err
	})

	result := BuildResult(reports)
	result.CacheHits = int(hits.Load())

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if errs != nil {
		return result, errs
	}
	return result, nil
}

func (s *Service) analyzeFile(psr *parser.Parser, path string) (FileReport, bool, error) {
	if parser.DetectLanguage(path) != parser.LangPython {
		return FileReport{}, false, fmt.Errorf("%w for file: %s", parser.ErrUnsupportedLanguage, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return FileReport{}, false, fmt.Errorf("failed to read file: %w", err)
	}

	var hash string
	if s.cache != nil && s.cache.Enabled() {
		hash = cache.HashBytes(source)
		if report, ok := cache.Load[FileReport](s.cache, path, hash); ok {
			return report, true, nil
		}
	}

	parsed, err := psr.Parse(source, path)
	if err != nil {
		return FileReport{}, false, err
	}
	report := s.AnalyzeModule(path, parsed.Module)

	if hash != "" {
		// A failed write only costs a future cache miss.
		_ = cache.Store(s.cache, path, hash, report)
	}
	return report, false, nil
}

// BuildResult aggregates file reports into the project analyses.
func BuildResult(reports []FileReport) *Result {
	if reports == nil {
		reports = []FileReport{}
	}

	cx := make([]complexity.FileResult, 0, len(reports))
	hal := make([]halstead.FileResult, 0, len(reports))
	coh := make([]cohesion.FileResult, 0, len(reports))
	cpl := make([]coupling.FileResult, 0, len(reports))
	for _, r := range reports {
		cx = append(cx, r.Complexity)
		hal = append(hal, r.Halstead)
		coh = append(coh, r.Cohesion)
		cpl = append(cpl, r.Coupling)
	}

	return &Result{
		Files:      reports,
		Complexity: complexity.BuildAnalysis(cx),
		Halstead:   halstead.BuildAnalysis(hal),
		Cohesion:   cohesion.BuildAnalysis(coh),
		Coupling:   coupling.BuildAnalysis(cpl),
	}
}

// Close releases analyzer resources.
func (s *Service) Close() {
	s.complexity.Close()
	s.halstead.Close()
	s.cohesion.Close()
	s.coupling.Close()
}
