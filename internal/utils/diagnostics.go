package utils

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel controls how much mvcgen prints. Each level includes the
// ones below it.
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// tagStyle is how a leveled message is tagged: "[WARN] ..." in yellow
type tagStyle struct {
	tag    string
	attr   color.Attribute
	stderr bool
}

var (
	errorTag   = tagStyle{"ERROR", color.FgRed, true}
	warnTag    = tagStyle{"WARN", color.FgYellow, false}
	infoTag    = tagStyle{"INFO", color.FgBlue, false}
	successTag = tagStyle{"SUCCESS", color.FgGreen, false}
	verboseTag = tagStyle{"VERBOSE", color.FgHiBlack, false}
	debugTag   = tagStyle{"DEBUG", color.FgMagenta, false}
)

// DiagnosticSystem prints generator progress for people: leveled tagged
// messages plus the phase layout of a run.
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
}

func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics prints errors only
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

func (d *DiagnosticSystem) SetOutput(output, errorOut io.Writer) {
	d.output = output
	d.errorOut = errorOut
}

func (d *DiagnosticSystem) SetColors(enabled bool) {
	d.useColors = enabled
}

// SetShowTime prefixes tagged messages with the wall clock time
func (d *DiagnosticSystem) SetShowTime(enabled bool) {
	d.showTime = enabled
}

func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

func (d *DiagnosticSystem) Error(format string, args ...any) {
	d.tagged(DiagnosticError, errorTag, format, args)
}

func (d *DiagnosticSystem) Warn(format string, args ...any) {
	d.tagged(DiagnosticWarn, warnTag, format, args)
}

func (d *DiagnosticSystem) Info(format string, args ...any) {
	d.tagged(DiagnosticInfo, infoTag, format, args)
}

// Success is printed at info level
func (d *DiagnosticSystem) Success(format string, args ...any) {
	d.tagged(DiagnosticInfo, successTag, format, args)
}

func (d *DiagnosticSystem) Verbose(format string, args ...any) {
	d.tagged(DiagnosticVerbose, verboseTag, format, args)
}

func (d *DiagnosticSystem) Debug(format string, args ...any) {
	d.tagged(DiagnosticDebug, debugTag, format, args)
}

// List prints one "- item" line
func (d *DiagnosticSystem) List(format string, args ...any) {
	if d.enabled(DiagnosticInfo) {
		fmt.Fprintf(d.output, "- %s\n", fmt.Sprintf(format, args...))
	}
}

// Summary prints title followed by the stats, sorted by key
func (d *DiagnosticSystem) Summary(title string, stats map[string]any) {
	if !d.enabled(DiagnosticInfo) {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", title)
	for _, key := range slices.Sorted(maps.Keys(stats)) {
		fmt.Fprintf(&b, "   %s: %v\n", key, stats[key])
	}
	b.WriteString("\n")
	io.WriteString(d.output, b.String())
}

// Header opens a run: "MVC: <message>"
func (d *DiagnosticSystem) Header(message string) {
	if d.enabled(DiagnosticInfo) {
		d.colored(color.FgCyan).Fprintf(d.output, "MVC: %s\n", message)
	}
}

func (d *DiagnosticSystem) SourcePath(path string) {
	if d.enabled(DiagnosticInfo) {
		fmt.Fprintf(d.output, "Source Path: %s\n\n", path)
	}
}

func (d *DiagnosticSystem) PhaseHeader(phase string) {
	if d.enabled(DiagnosticInfo) {
		d.colored(color.FgBlue).Fprintf(d.output, "%s:\n", phase)
	}
}

// PhaseItem prints a finished step with a check mark
func (d *DiagnosticSystem) PhaseItem(message string) {
	d.marked("✓ ", color.FgGreen, message)
}

// PhaseProgress prints a step in progress. File writes and removals get a
// pencil mark.
func (d *DiagnosticSystem) PhaseProgress(message string) {
	if strings.HasPrefix(message, "Writing") || strings.HasPrefix(message, "Removing") {
		d.marked("✏ ", color.FgMagenta, message)
		return
	}
	if d.enabled(DiagnosticInfo) {
		fmt.Fprintf(d.output, "- %s\n", message)
	}
}

func (d *DiagnosticSystem) GenerationComplete() {
	if d.enabled(DiagnosticInfo) {
		fmt.Fprintln(d.output)
		d.colored(color.FgGreen).Fprintln(d.output, "MVC: Generation complete!")
	}
}

func (d *DiagnosticSystem) enabled(level DiagnosticLevel) bool {
	return d.level >= level
}

func (d *DiagnosticSystem) tagged(level DiagnosticLevel, style tagStyle, format string, args []any) {
	if !d.enabled(level) {
		return
	}
	var b strings.Builder
	if d.showTime {
		b.WriteString(time.Now().Format("15:04:05 "))
	}
	b.WriteString(d.colored(style.attr).Sprintf("[%s]", style.tag))
	b.WriteString(" ")
	fmt.Fprintf(&b, format, args...)
	b.WriteString("\n")

	w := d.output
	if style.stderr {
		w = d.errorOut
	}
	io.WriteString(w, b.String())
}

func (d *DiagnosticSystem) marked(mark string, attr color.Attribute, message string) {
	if !d.enabled(DiagnosticInfo) {
		return
	}
	d.colored(attr).Fprint(d.output, mark)
	fmt.Fprintln(d.output, message)
}

// colored builds a color that follows this system's setting instead of
// fatih/color's global terminal detection
func (d *DiagnosticSystem) colored(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if d.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// shouldUseColors honors NO_COLOR, then FORCE_COLOR, then TERM
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
