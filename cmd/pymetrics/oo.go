package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/pymetrics/internal/output"
	"github.com/panbanda/pymetrics/internal/service/analysis"
	"github.com/panbanda/pymetrics/pkg/analyzer/cohesion"
	"github.com/panbanda/pymetrics/pkg/analyzer/coupling"
	"github.com/panbanda/pymetrics/pkg/config"
)

func lcomCmd() *cli.Command {
	return &cli.Command{
		Name:      "lcom",
		Aliases:   []string{"cohesion"},
		Usage:     "Compute lack of cohesion in methods per class",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Warn about classes whose LCOM exceeds this value",
			},
		},
		Action: withResult(nil, renderLCOM),
	}
}

func cboCmd() *cli.Command {
	return &cli.Command{
		Name:      "cbo",
		Aliases:   []string{"coupling"},
		Usage:     "Compute coupling between objects per class",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Warn about classes whose CBO exceeds this value",
			},
		},
		Action: withResult(nil, renderCBO),
	}
}

func lineRange(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}

func lcomTable(a *cohesion.Analysis, threshold int, colored bool) *output.Table {
	a.SortByLCOM()
	rows := make([][]string, 0, len(a.Classes))
	for _, cls := range a.Classes {
		lcom := fmt.Sprintf("%d", cls.LCOM)
		if colored && cls.LCOM > threshold {
			lcom = color.RedString(lcom)
		}
		rows = append(rows, []string{
			cls.ClassName,
			cls.Path,
			lineRange(cls.StartLine, cls.EndLine),
			fmt.Sprintf("%d", cls.NOM),
			fmt.Sprintf("%d", cls.NOF),
			lcom,
			string(cls.Risk),
		})
	}

	return output.NewTable(
		"Lack of Cohesion in Methods",
		[]string{"Class", "File", "Lines", "Methods", "Fields", "LCOM", "Risk"},
		rows,
		[]string{
			fmt.Sprintf("Classes: %d", a.Summary.TotalClasses),
			fmt.Sprintf("Files: %d", a.Summary.TotalFiles),
			"", "", "",
			fmt.Sprintf("Avg: %.2f", a.Summary.AvgLCOM),
			fmt.Sprintf("Max: %d", a.Summary.MaxLCOM),
		},
		a,
	)
}

func cboTable(a *coupling.Analysis, threshold int, colored bool) *output.Table {
	a.SortByCBO()
	rows := make([][]string, 0, len(a.Classes))
	for _, cls := range a.Classes {
		cbo := fmt.Sprintf("%d", cls.CBO)
		if colored && cls.CBO > threshold {
			cbo = color.RedString(cbo)
		}
		rows = append(rows, []string{
			cls.ClassName,
			cls.Path,
			lineRange(cls.StartLine, cls.EndLine),
			cbo,
			strings.Join(cls.CoupledClasses, ", "),
			string(cls.Risk),
		})
	}

	return output.NewTable(
		"Coupling Between Objects",
		[]string{"Class", "File", "Lines", "CBO", "Coupled Classes", "Risk"},
		rows,
		[]string{
			fmt.Sprintf("Classes: %d", a.Summary.TotalClasses),
			fmt.Sprintf("Files: %d", a.Summary.TotalFiles),
			"",
			fmt.Sprintf("Avg: %.2f", a.Summary.AvgCBO),
			fmt.Sprintf("Max: %d", a.Summary.MaxCBO),
			"",
		},
		a,
	)
}

func lcomWarnings(a *cohesion.Analysis, threshold int) []string {
	var warnings []string
	for _, cls := range a.Above(threshold) {
		warnings = append(warnings, fmt.Sprintf("%s:%d %s - LCOM %d exceeds threshold %d",
			cls.Path, cls.StartLine, cls.ClassName, cls.LCOM, threshold))
	}
	return warnings
}

func cboWarnings(a *coupling.Analysis, threshold int) []string {
	var warnings []string
	for _, cls := range a.Above(threshold) {
		warnings = append(warnings, fmt.Sprintf("%s:%d %s - CBO %d exceeds threshold %d",
			cls.Path, cls.StartLine, cls.ClassName, cls.CBO, threshold))
	}
	return warnings
}

func printWarnings(formatter *output.Formatter, warnings []string) {
	if len(warnings) == 0 || formatter.Format() != output.FormatText {
		return
	}
	w := formatter.Writer()
	color.New(color.FgYellow).Fprintf(w, "Warnings (%d):\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  - %s\n", warning)
	}
}

func renderLCOM(c *cli.Context, cfg *config.Config, formatter *output.Formatter, result *analysis.Result) error {
	if len(result.Cohesion.Classes) == 0 {
		color.Yellow("No classes found")
		return nil
	}
	threshold := intFlag(c, "threshold", cfg.Thresholds.LCOM)
	if err := formatter.Output(lcomTable(result.Cohesion, threshold, formatter.Colored())); err != nil {
		return err
	}
	printWarnings(formatter, lcomWarnings(result.Cohesion, threshold))
	return nil
}

func renderCBO(c *cli.Context, cfg *config.Config, formatter *output.Formatter, result *analysis.Result) error {
	if len(result.Coupling.Classes) == 0 {
		color.Yellow("No classes found")
		return nil
	}
	threshold := intFlag(c, "threshold", cfg.Thresholds.CBO)
	if err := formatter.Output(cboTable(result.Coupling, threshold, formatter.Colored())); err != nil {
		return err
	}
	printWarnings(formatter, cboWarnings(result.Coupling, threshold))
	return nil
}
