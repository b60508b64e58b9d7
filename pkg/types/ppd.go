// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Document holds a driver description file as loaded from the printer
// resource directory. Lines keep their original order with trailing line
// terminators removed.
type Document struct {
	// FileName is the name the file was requested by (e.g. "HP LaserJet.gz").
	FileName string `json:"file_name" yaml:"file_name"`

	// SourcePath is the resolved location of the file on disk.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// Exists reports whether SourcePath was present when the document was loaded.
	Exists bool `json:"exists" yaml:"exists"`

	// Lines holds the decoded file content, one entry per line.
	Lines []string `json:"-" yaml:"-"`
}

// OutcomeKind classifies what the rewriter did with a single input line.
type OutcomeKind string

const (
	OutcomePassThrough     OutcomeKind = "pass-through"
	OutcomeDropped         OutcomeKind = "dropped"
	OutcomeDroppedWithCopy OutcomeKind = "dropped-with-copy"
)

// Outcome is the result of classifying one input line. Text is the line to
// emit for OutcomePassThrough and OutcomeDroppedWithCopy; the latter also
// carries the profile that was copied. The original line is replaced by the
// rewritten one, so a copy outcome still produces exactly one output line.
type Outcome struct {
	Kind    OutcomeKind
	Text    string
	Profile *CopiedProfile
}

// Emits reports whether the outcome produces an output line.
func (o Outcome) Emits() bool {
	return o.Kind != OutcomeDropped
}

// DiagnosticLevel is the severity prefix of a diagnostic line.
type DiagnosticLevel string

const (
	LevelInfo    DiagnosticLevel = "Info"
	LevelWarning DiagnosticLevel = "Warning"
	LevelError   DiagnosticLevel = "Error"
)

// Diagnostic is a human-readable message produced while converting.
type Diagnostic struct {
	Level   DiagnosticLevel `json:"level" yaml:"level"`
	Message string          `json:"message" yaml:"message"`
}

// String renders the diagnostic as "<Level>: <message>".
func (d Diagnostic) String() string {
	return string(d.Level) + ": " + d.Message
}

// CopiedProfile records an ICC profile copied next to the converted file.
type CopiedProfile struct {
	// Source is the absolute path referenced by the original file.
	Source string `json:"source" yaml:"source"`

	// Destination is the path of the copy inside the output directory.
	Destination string `json:"destination" yaml:"destination"`
}

// ArtifactSet describes everything a conversion wrote to the output directory.
type ArtifactSet struct {
	// OutputPath is the path of the rewritten driver file.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// LinesIn is the number of lines read from the source document.
	LinesIn int `json:"lines_in" yaml:"lines_in"`

	// LinesOut is the number of lines written; never greater than LinesIn.
	LinesOut int `json:"lines_out" yaml:"lines_out"`

	// Profiles lists the ICC profiles copied, in source line order.
	Profiles []CopiedProfile `json:"profiles" yaml:"profiles"`

	// Diagnostics lists every message emitted during the conversion.
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Dropped returns the number of input lines that produced no output.
func (a ArtifactSet) Dropped() int {
	return a.LinesIn - a.LinesOut
}
