package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/minimvc/internal/models"
)

// errorHelp is the printed title of each error type and, for some, a short
// reminder of the rules that were broken
var errorHelp = map[models.ErrorType]struct {
	title string
	rules string
	lines []string
}{
	models.ErrorTypeAnnotationSyntax: {
		title: "Annotation Syntax Error",
		rules: "Annotation Syntax Help",
		lines: []string{
			"Annotations must start with //mvc:: and sit in the doc comment",
			"Parameters are written -Name=value, positional values come first",
			"Quote values containing spaces or commas",
		},
	},
	models.ErrorTypeValidation: {
		title: "Validation Error",
		rules: "Component Rules",
		lines: []string{
			"//mvc::controller and //mvc::service mark struct types",
			"//mvc::route marks exported methods of a controller",
			"Route methods return nothing or a single error",
		},
	},
	models.ErrorTypeGeneration: {title: "Code Generation Error"},
	models.ErrorTypeFileSystem: {title: "File System Error"},
}

// DiagnosticReporter writes a failed run's error for a person to read
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter reports to stderr. Verbose adds the unwrapped error chain.
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: os.Stderr}
}

func (r *DiagnosticReporter) SetOutput(out io.Writer) {
	r.out = out
}

// ReportError prints err. A *models.GeneratorError anywhere in the chain
// gets its location, suggestions and the rules for its type.
func (r *DiagnosticReporter) ReportError(err error) {
	var b strings.Builder
	b.WriteString("\nERROR: Code Generation Failed\n=============================\n\n")

	var genErr *models.GeneratorError
	if errors.As(err, &genErr) {
		r.writeGeneratorError(&b, genErr)
	} else {
		fmt.Fprintf(&b, "Message: %s\n\n", err)
		writeGeneralHelp(&b)
	}
	b.WriteString("\n")
	io.WriteString(r.out, b.String())
}

func (r *DiagnosticReporter) writeGeneratorError(b *strings.Builder, genErr *models.GeneratorError) {
	help, ok := errorHelp[genErr.Type]
	if !ok {
		help.title = "Unknown Error"
	}
	color.New(color.FgRed, color.Bold).Fprintf(b, "Type: %s\n", help.title)
	fmt.Fprintf(b, "%s\n\n", strings.Repeat("-", len(help.title)+6))

	fmt.Fprintf(b, "Message: %s\n\n", genErr.Message)
	if genErr.Cause != nil {
		fmt.Fprintf(b, "Cause: %s\n\n", genErr.Cause)
	}
	switch {
	case genErr.File != "" && genErr.Line > 0:
		fmt.Fprintf(b, "Location: %s:%d\n\n", genErr.File, genErr.Line)
	case genErr.File != "":
		fmt.Fprintf(b, "File: %s\n\n", genErr.File)
	}

	if len(genErr.Suggestions) > 0 {
		b.WriteString("Suggestions:\n")
		for i, suggestion := range genErr.Suggestions {
			first, rest, _ := strings.Cut(suggestion, "\n")
			fmt.Fprintf(b, "   %d. %s\n", i+1, first)
			for _, line := range strings.Split(rest, "\n") {
				if strings.TrimSpace(line) != "" {
					fmt.Fprintf(b, "      %s\n", line)
				}
			}
		}
		b.WriteString("\n")
	}

	if help.rules != "" {
		fmt.Fprintf(b, "%s:\n", help.rules)
		for _, line := range help.lines {
			fmt.Fprintf(b, "  - %s\n", line)
		}
		b.WriteString("\n")
	}
	writeGeneralHelp(b)

	if r.verbose {
		fmt.Fprintf(b, "\nVerbose Debug Information:\n  Error Type: %s (%d)\n", genErr.Type, int(genErr.Type))
		if genErr.Cause != nil {
			b.WriteString("  Error Chain:\n")
			for i, err := 1, genErr.Cause; err != nil; i, err = i+1, errors.Unwrap(err) {
				fmt.Fprintf(b, "    %d. %s\n", i, err)
			}
		}
	}
}

func writeGeneralHelp(b *strings.Builder) {
	b.WriteString("For more help:\n")
	b.WriteString("  - Run with -verbose for more detailed output\n")
	b.WriteString("  - Review the demo application in examples/demo\n")
}

// GenerationSummary counts what one run found and wrote
type GenerationSummary struct {
	PackagesProcessed int
	FilesGenerated    int
	ControllersFound  int
	ServicesFound     int
	RoutesFound       int
	GeneratedFiles    []string
	RemovedFiles      []string
}
