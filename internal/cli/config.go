package cli

// Config holds the configuration for the CLI generator
type Config struct {
	// Root is the directory the scan package is resolved against. It is the
	// same root the runtime catalog walks.
	Root string

	// ScanPackage is the dot- or slash-delimited package root to scan
	ScanPackage string

	// ModuleName is the import path of Root.
	// If empty, it is derived from the enclosing go.mod file
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Quiet limits output to errors
	Quiet bool

	// Clean removes generated files instead of generating them
	Clean bool
}
