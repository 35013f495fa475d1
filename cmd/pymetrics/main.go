package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// valueFlags are the global flags that consume the next argument.
var valueFlags = map[string]bool{
	"-c": true, "--config": true,
	"-f": true, "--format": true,
	"-o": true, "--output": true,
}

// getPaths returns the positional args, defaulting to ["."]. Global flags
// given after the paths are skipped together with their values.
func getPaths(c *cli.Context) []string {
	args := c.Args().Slice()
	var paths []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if valueFlags[arg] {
				i++
			}
			continue
		}
		paths = append(paths, arg)
	}
	if len(paths) == 0 {
		return []string{"."}
	}
	return paths
}

// getTrailingFlag returns the value of a string flag, looking first at the
// arguments left after the positional paths (urfave/cli stops parsing flags
// at the first positional argument).
func getTrailingFlag(c *cli.Context, name, short, defaultValue string) string {
	args := c.Args().Slice()
	for i, arg := range args {
		for _, flag := range []string{"--" + name, "-" + short} {
			if arg == flag && i+1 < len(args) {
				return args[i+1]
			}
			if v, ok := strings.CutPrefix(arg, flag+"="); ok {
				return v
			}
		}
	}
	if v := c.String(name); v != "" {
		return v
	}
	return defaultValue
}

// getTrailingBool reports whether a bool flag was given either before or
// after the positional paths.
func getTrailingBool(c *cli.Context, name string) bool {
	for _, arg := range c.Args().Slice() {
		if arg == "--"+name {
			return true
		}
	}
	return c.Bool(name)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pymetrics",
		Usage:   "Python source code metrics",
		Version: version,
		Description: `pymetrics computes McCabe cyclomatic complexity, Halstead metrics,
lack of cohesion in methods (LCOM) and coupling between objects (CBO)
for Python sources.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"PYMETRICS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Commands: []*cli.Command{
			ccCmd(),
			halCmd(),
			lcomCmd(),
			cboCmd(),
			analyzeCmd(),
			initCmd(),
			configCmd(),
		},
	}
}
