package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/toyz/minimvc/internal/cli"
	"github.com/toyz/minimvc/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the generator and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("mvcgen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		rootFlag    = flags.String("root", ".", "Directory the scan package is resolved against")
		scanFlag    = flags.String("scan", "", "Package root to scan, dot- or slash-delimited (e.g. app or app.controller)")
		moduleFlag  = flags.String("module", "", "Import path of the root directory (defaults to go.mod module)")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flags.Bool("quiet", false, "Only show errors")
		cleanFlag   = flags.Bool("clean", false, "Delete all autogen_components.go files below the scan package")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mvcgen -scan PKG [options]\n\n")
		fmt.Fprintf(stderr, "minimvc component generator\n")
		fmt.Fprintf(stderr, "Scans the packages below PKG for //mvc:: markers and writes one autogen_components.go per package.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  mvcgen -scan app                          # Generate descriptors for ./app/...\n")
		fmt.Fprintf(stderr, "  mvcgen -root examples/demo -scan app      # Scan a nested application\n")
		fmt.Fprintf(stderr, "  mvcgen -scan app -module example.com/demo # Specify the root import path\n")
		fmt.Fprintf(stderr, "  mvcgen -scan app -clean                   # Delete generated files\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *scanFlag == "" {
		fmt.Fprintf(stderr, "Error: -scan is required\n\n")
		flags.Usage()
		return 2
	}
	if *verboseFlag && *quietFlag {
		fmt.Fprintf(stderr, "Error: -verbose and -quiet are mutually exclusive\n")
		return 2
	}

	// Create diagnostic system based on flags
	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(stdout, stderr)

	config := cli.Config{
		Root:        *rootFlag,
		ScanPackage: *scanFlag,
		ModuleName:  *moduleFlag,
		Verbose:     *verboseFlag,
		Quiet:       *quietFlag,
		Clean:       *cleanFlag,
	}

	generator := cli.NewGenerator(diagnostics)
	if err := generator.Run(config); err != nil {
		reporter := cli.NewDiagnosticReporter(config.Verbose)
		reporter.SetOutput(stderr)
		reporter.ReportError(err)
		return 1
	}

	if config.Verbose {
		for _, file := range generator.GetSummary().GeneratedFiles {
			diagnostics.List("%s", file)
		}
	}
	return 0
}
