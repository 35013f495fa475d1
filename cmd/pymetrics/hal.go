package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/pymetrics/internal/output"
	"github.com/panbanda/pymetrics/internal/service/analysis"
	"github.com/panbanda/pymetrics/pkg/analyzer/halstead"
	"github.com/panbanda/pymetrics/pkg/config"
)

func halCmd() *cli.Command {
	return &cli.Command{
		Name:      "hal",
		Aliases:   []string{"halstead"},
		Usage:     "Compute Halstead metrics",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "functions",
				Usage: "Report every function instead of whole files",
			},
		},
		Action: withResult(nil, renderHal),
	}
}

var halHeaders = []string{"Name", "h1", "h2", "N1", "N2", "Vocabulary", "Length", "Volume", "Difficulty", "Effort", "Bugs"}

func halRow(name string, r halstead.Report) []string {
	return []string{
		name,
		fmt.Sprintf("%d", r.H1),
		fmt.Sprintf("%d", r.H2),
		fmt.Sprintf("%d", r.N1),
		fmt.Sprintf("%d", r.N2),
		fmt.Sprintf("%d", r.Vocabulary),
		fmt.Sprintf("%d", r.Length),
		fmt.Sprintf("%.2f", r.Volume),
		fmt.Sprintf("%.2f", r.Difficulty),
		fmt.Sprintf("%.2f", r.Effort),
		fmt.Sprintf("%.3f", r.Bugs),
	}
}

func halTable(a *halstead.Analysis, functions bool) *output.Table {
	var rows [][]string
	for _, fr := range a.Files {
		if !functions {
			rows = append(rows, halRow(fr.Path, fr.Total))
			continue
		}
		for _, fn := range fr.Functions {
			rows = append(rows, halRow(fr.Path+":"+fn.Name, fn.Report))
		}
	}

	return output.NewTable(
		"Halstead Metrics",
		halHeaders,
		rows,
		[]string{
			fmt.Sprintf("Files: %d", a.Summary.TotalFiles),
			"", "", "", "", "", "",
			fmt.Sprintf("%.2f", a.Summary.Volume),
			"",
			fmt.Sprintf("%.2f", a.Summary.Effort),
			fmt.Sprintf("%.3f", a.Summary.Bugs),
		},
		a,
	)
}

func renderHal(c *cli.Context, _ *config.Config, formatter *output.Formatter, result *analysis.Result) error {
	return formatter.Output(halTable(result.Halstead, c.Bool("functions")))
}
