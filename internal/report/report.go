// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a YAML summary of a conversion run: where the
// rewritten file went, how many lines were removed, which ICC profiles were
// copied, and every diagnostic emitted along the way.
package report

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ppd-mac2linux/internal/icc"
	"github.com/pdiddy/ppd-mac2linux/pkg/types"
)

// Report is the serialized form of a conversion run.
type Report struct {
	FileName    string             `json:"file_name" yaml:"file_name"`
	Source      string             `json:"source" yaml:"source"`
	Output      string             `json:"output" yaml:"output"`
	ConvertedAt string             `json:"converted_at" yaml:"converted_at"`
	LinesIn     int                `json:"lines_in" yaml:"lines_in"`
	LinesOut    int                `json:"lines_out" yaml:"lines_out"`
	Dropped     int                `json:"dropped" yaml:"dropped"`
	Profiles    []Profile          `json:"profiles" yaml:"profiles"`
	Diagnostics []types.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// Profile describes one copied ICC profile. Header is nil when the copy
// does not look like an ICC profile.
type Profile struct {
	Source      string      `json:"source" yaml:"source"`
	Destination string      `json:"destination" yaml:"destination"`
	Header      *icc.Header `json:"header,omitempty" yaml:"header,omitempty"`
}

// Build assembles the report for a finished conversion.
func Build(doc types.Document, set types.ArtifactSet, now time.Time) Report {
	r := Report{
		FileName:    doc.FileName,
		Source:      doc.SourcePath,
		Output:      set.OutputPath,
		ConvertedAt: now.UTC().Format(time.RFC3339),
		LinesIn:     set.LinesIn,
		LinesOut:    set.LinesOut,
		Dropped:     set.Dropped(),
		Profiles:    make([]Profile, 0, len(set.Profiles)),
		Diagnostics: set.Diagnostics,
	}
	if r.Diagnostics == nil {
		r.Diagnostics = []types.Diagnostic{}
	}

	for _, p := range set.Profiles {
		entry := Profile{Source: p.Source, Destination: p.Destination}
		if h, err := icc.ReadHeader(p.Destination); err == nil {
			entry.Header = &h
		}
		r.Profiles = append(r.Profiles, entry)
	}
	return r
}

// Write marshals r as YAML to path, replacing any existing file.
func Write(path string, r Report) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
