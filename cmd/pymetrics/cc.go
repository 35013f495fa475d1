package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/pymetrics/internal/output"
	"github.com/panbanda/pymetrics/internal/service/analysis"
	"github.com/panbanda/pymetrics/pkg/analyzer/complexity"
	"github.com/panbanda/pymetrics/pkg/config"
)

func ccCmd() *cli.Command {
	return &cli.Command{
		Name:      "cc",
		Aliases:   []string{"complexity"},
		Usage:     "Compute cyclomatic complexity of functions, methods and classes",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-assert",
				Usage: "Do not count assert statements as decisions",
			},
			&cli.BoolFlag{
				Name:  "show-closures",
				Usage: "List nested functions after their parent",
			},
			&cli.StringFlag{
				Name:  "min",
				Usage: "Lowest rank shown (A-F)",
			},
			&cli.StringFlag{
				Name:  "max",
				Usage: "Highest rank shown (A-F)",
			},
			&cli.StringFlag{
				Name:  "order",
				Usage: "Block order: score, lines, alpha",
			},
			&cli.BoolFlag{
				Name:  "total-average",
				Usage: "Average over every block, not only the shown ones",
			},
		},
		Action: withResult(prepareCC, renderCC),
	}
}

func prepareCC(c *cli.Context, cfg *config.Config) {
	if c.Bool("no-assert") {
		cfg.Analysis.NoAssert = true
	}
	if c.Bool("show-closures") {
		cfg.Analysis.ShowClosures = true
	}
	cfg.Analysis.MinRank = strings.ToUpper(stringFlag(c, "min", cfg.Analysis.MinRank))
	cfg.Analysis.MaxRank = strings.ToUpper(stringFlag(c, "max", cfg.Analysis.MaxRank))
	cfg.Analysis.Order = stringFlag(c, "order", cfg.Analysis.Order)
}

// ccBlock is the serialized form of a block.
type ccBlock struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	ClassName  string `json:"classname,omitempty"`
	Line       int    `json:"lineno"`
	Col        int    `json:"col_offset"`
	EndLine    int    `json:"endline"`
	Complexity int    `json:"complexity"`
	Rank       string `json:"rank"`
}

type ccFile struct {
	Path   string    `json:"path"`
	Blocks []ccBlock `json:"blocks"`
}

type ccReport struct {
	Files             []ccFile `json:"files"`
	Blocks            int      `json:"blocks"`
	AverageComplexity float64  `json:"average_complexity"`
	AverageRank       string   `json:"average_rank"`
}

func newCCBlock(b complexity.Block) ccBlock {
	out := ccBlock{
		Name:       b.FullName(),
		Line:       b.StartLine(),
		EndLine:    b.LastLine(),
		Complexity: b.Cyclomatic(),
		Rank:       complexity.Rank(b.Cyclomatic()),
	}
	switch b := b.(type) {
	case complexity.Function:
		out.Type = "function"
		if b.IsMethod {
			out.Type = "method"
		}
		out.Name = b.Name
		out.ClassName = b.ClassName
		out.Col = b.Col
	case complexity.Class:
		out.Type = "class"
		out.Col = b.Col
	}
	return out
}

// shownBlocks returns the blocks of r selected by the analysis settings
// (closures, rank window and order) together with every block before
// filtering.
func shownBlocks(r complexity.FileResult, cfg config.AnalysisConfig) (shown, all []complexity.Block) {
	all = r.Blocks()
	if cfg.ShowClosures {
		all = complexity.ExpandClosures(all)
	}
	shown = complexity.FilterRank(all, cfg.MinRank, cfg.MaxRank)
	complexity.OrderBlocks(shown, complexity.Order(cfg.Order))
	return shown, all
}

// ccLine renders a block the way radon's terminal output does:
// "F 1:0 name - A (1)".
func ccLine(b ccBlock, colored bool) string {
	letter := map[string]string{"function": "F", "method": "M", "class": "C"}[b.Type]
	name := b.Name
	if b.ClassName != "" {
		name = b.ClassName + "." + b.Name
	}
	grade := fmt.Sprintf("%s (%d)", b.Rank, b.Complexity)
	if colored {
		grade = output.RankColor(b.Rank, grade)
	}
	return fmt.Sprintf("    %s %d:%d %s - %s", letter, b.Line, b.Col, name, grade)
}

func buildCCReport(result *analysis.Result, cfg config.AnalysisConfig, totalAverage bool) ccReport {
	report := ccReport{Files: []ccFile{}}
	var averaged []complexity.Block
	for _, fr := range result.Complexity.Files {
		shown, all := shownBlocks(fr, cfg)
		if totalAverage {
			averaged = append(averaged, all...)
		} else {
			averaged = append(averaged, shown...)
		}
		if len(shown) == 0 {
			continue
		}
		file := ccFile{Path: fr.Path, Blocks: make([]ccBlock, 0, len(shown))}
		for _, b := range shown {
			file.Blocks = append(file.Blocks, newCCBlock(b))
		}
		report.Files = append(report.Files, file)
		report.Blocks += len(shown)
	}
	report.AverageComplexity = complexity.AverageComplexity(averaged)
	report.AverageRank = complexity.Rank(int(report.AverageComplexity + 0.5))
	return report
}

func renderCC(c *cli.Context, cfg *config.Config, formatter *output.Formatter, result *analysis.Result) error {
	report := buildCCReport(result, cfg.Analysis, c.Bool("total-average"))

	sections := make([]output.Renderable, 0, len(report.Files)+1)
	for _, file := range report.Files {
		lines := make([]string, 0, len(file.Blocks))
		for _, b := range file.Blocks {
			lines = append(lines, ccLine(b, formatter.Colored()))
		}
		sections = append(sections, &output.Section{Title: file.Path, Lines: lines})
	}

	average := fmt.Sprintf("%s (%.2f)", report.AverageRank, report.AverageComplexity)
	if formatter.Colored() {
		average = output.RankColor(report.AverageRank, average)
	}
	sections = append(sections, &output.Section{Lines: []string{
		fmt.Sprintf("%d blocks (classes, functions, methods) analyzed.", report.Blocks),
		"Average complexity: " + average,
	}})

	return formatter.Output(&output.Report{
		Title:    "Cyclomatic Complexity",
		Sections: sections,
		Data:     report,
	})
}
