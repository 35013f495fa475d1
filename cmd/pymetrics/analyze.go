package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/pymetrics/internal/output"
	"github.com/panbanda/pymetrics/internal/service/analysis"
	"github.com/panbanda/pymetrics/pkg/analyzer/complexity"
	"github.com/panbanda/pymetrics/pkg/config"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"all"},
		Usage:     "Run every metric and print a combined report",
		ArgsUsage: "[path...]",
		Action:    withResult(nil, renderAnalyze),
	}
}

func complexityTable(a *complexity.Analysis, colored bool) *output.Table {
	rows := make([][]string, 0, len(a.Files))
	for _, fr := range a.Files {
		worst := 0
		blocks := fr.Blocks()
		for _, b := range blocks {
			worst = max(worst, b.Cyclomatic())
		}
		rank := complexity.Rank(worst)
		if colored {
			rank = output.RankColor(rank, rank)
		}
		rows = append(rows, []string{
			fr.Path,
			fmt.Sprintf("%d", len(blocks)),
			fmt.Sprintf("%d", fr.Total),
			fmt.Sprintf("%.2f", fr.Average),
			fmt.Sprintf("%d", worst),
			rank,
		})
	}

	return output.NewTable(
		"Cyclomatic Complexity",
		[]string{"File", "Blocks", "Total", "Average", "Max", "Rank"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", a.Summary.TotalFiles),
			fmt.Sprintf("%d", a.Summary.TotalBlocks),
			"",
			fmt.Sprintf("%.2f", a.Summary.AvgComplexity),
			fmt.Sprintf("%d", a.Summary.MaxComplexity),
			complexity.Rank(a.Summary.MaxComplexity),
		},
		a,
	)
}

func renderAnalyze(_ *cli.Context, cfg *config.Config, formatter *output.Formatter, result *analysis.Result) error {
	colored := formatter.Colored()
	report := &output.Report{
		Title: "pymetrics",
		Sections: []output.Renderable{
			complexityTable(result.Complexity, colored),
			halTable(result.Halstead, false),
			lcomTable(result.Cohesion, cfg.Thresholds.LCOM, colored),
			cboTable(result.Coupling, cfg.Thresholds.CBO, colored),
		},
		Data: result,
	}
	if err := formatter.Output(report); err != nil {
		return err
	}

	var warnings []string
	for _, fr := range result.Complexity.Files {
		for _, b := range fr.Blocks() {
			if b.Cyclomatic() > cfg.Thresholds.Cyclomatic {
				warnings = append(warnings, fmt.Sprintf("%s:%d %s - cyclomatic complexity %d exceeds threshold %d",
					fr.Path, b.StartLine(), b.FullName(), b.Cyclomatic(), cfg.Thresholds.Cyclomatic))
			}
		}
	}
	warnings = append(warnings, lcomWarnings(result.Cohesion, cfg.Thresholds.LCOM)...)
	warnings = append(warnings, cboWarnings(result.Coupling, cfg.Thresholds.CBO)...)
	printWarnings(formatter, warnings)
	return nil
}
