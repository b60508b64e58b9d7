// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite turns a macOS driver description file into one that the
// Linux print system accepts. Each line is classified independently: the
// platform and file name are rewritten, filters and macOS-only attributes
// are removed, and referenced ICC profiles are copied next to the output.
package rewrite

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/ppd-mac2linux/internal/ppd"
	"github.com/pdiddy/ppd-mac2linux/pkg/types"
)

// ErrNotInstalled is returned when converting a document whose source file
// was not found.
var ErrNotInstalled = errors.New("driver file not installed")

// Options adjusts a conversion run.
type Options struct {
	// ExtraMacAttributes are removed in addition to MacAttributes.
	ExtraMacAttributes []string
}

// Rewriter classifies the lines of one document. Diagnostics are written to
// the writer as they occur and kept for the artifact set.
type Rewriter struct {
	fileName  string
	nameNoExt string
	destDir   string
	macAttrs  []string

	w        io.Writer
	diags    []types.Diagnostic
	profiles []types.CopiedProfile
}

// NewRewriter prepares a rewriter for fileName whose copied profiles go to
// destDir. destDir gets a trailing separator if it lacks one; the directory
// itself is expected to exist.
func NewRewriter(fileName, destDir string, opts Options, w io.Writer) *Rewriter {
	attrs := make([]string, 0, len(MacAttributes)+len(opts.ExtraMacAttributes))
	attrs = append(attrs, MacAttributes...)
	attrs = append(attrs, opts.ExtraMacAttributes...)

	return &Rewriter{
		fileName:  fileName,
		nameNoExt: NameNoExt(fileName),
		destDir:   withTrailingSeparator(destDir),
		macAttrs:  attrs,
		w:         w,
	}
}

// Classify applies the rules to one line in order, stopping at the first one
// that removes it. The platform and file name substitutions happen first and
// the remaining checks see the substituted text. An error means a profile
// could not be copied and the run must stop.
func (r *Rewriter) Classify(line string) (types.Outcome, error) {
	if strings.HasPrefix(line, prefixPlatform) {
		line = linuxPlatform
	} else if strings.HasPrefix(line, prefixPCFile) {
		line = prefixPCFile + ` "` + r.fileName + `"`
	}

	if strings.Contains(line, keywordFilter) {
		r.emit(types.LevelWarning, "filter will be ignored: "+line)
		return dropped(), nil
	}

	if strings.Contains(line, keywordICC) {
		return r.relocateProfile(line)
	}

	if _, ok := matchMacAttribute(line, r.macAttrs); ok {
		r.emit(types.LevelInfo, "macOS specific attribute, will be ignored: "+line)
		return dropped(), nil
	}

	if strings.Contains(line, macPrinterPaths) {
		r.emit(types.LevelInfo, "macOS specific path: "+line)
		return dropped(), nil
	}

	return types.Outcome{Kind: types.OutcomePassThrough, Text: line}, nil
}

// relocateProfile copies the profile referenced by an ICC line into the
// output directory and points the line at the copy. Lines whose profile
// cannot be located are dropped.
func (r *Rewriter) relocateProfile(line string) (types.Outcome, error) {
	src, ok := ExtractICCPath(line)
	if !ok {
		r.emit(types.LevelWarning, "cannot extract ICC profile path: "+line)
		return dropped(), nil
	}

	if !isRegularFile(src) {
		r.emit(types.LevelWarning, fmt.Sprintf("ICC profile at %s doesn't exist, skipping", src))
		return dropped(), nil
	}

	dst := r.destDir + r.nameNoExt + "_" + filepath.Base(src)
	if err := copyFile(src, dst); err != nil {
		return types.Outcome{}, err
	}

	profile := types.CopiedProfile{Source: src, Destination: dst}
	r.profiles = append(r.profiles, profile)
	r.emit(types.LevelInfo, fmt.Sprintf(
		"ICC profile copied to %s, please update path in PPD file when copying to target destination", dst))

	return types.Outcome{
		Kind:    types.OutcomeDroppedWithCopy,
		Text:    strings.ReplaceAll(line, src, dst),
		Profile: &profile,
	}, nil
}

// Diagnostics returns the messages emitted so far.
func (r *Rewriter) Diagnostics() []types.Diagnostic {
	return r.diags
}

// Profiles returns the ICC profiles copied so far.
func (r *Rewriter) Profiles() []types.CopiedProfile {
	return r.profiles
}

func (r *Rewriter) emit(level types.DiagnosticLevel, msg string) {
	d := types.Diagnostic{Level: level, Message: msg}
	r.diags = append(r.diags, d)
	if r.w != nil {
		fmt.Fprintln(r.w, d.String())
	}
}

// Convert rewrites doc into destDir, writing the result under the document's
// own file name. Lines keep their relative order. Copies made before a
// failure are left in place.
func Convert(doc types.Document, destDir string, opts Options, w io.Writer) (types.ArtifactSet, error) {
	if !doc.Exists {
		return types.ArtifactSet{}, fmt.Errorf("%s: %w", doc.SourcePath, ErrNotInstalled)
	}

	r := NewRewriter(doc.FileName, destDir, opts, w)
	set := types.ArtifactSet{
		OutputPath: r.destDir + doc.FileName,
		LinesIn:    len(doc.Lines),
	}

	out := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		outcome, err := r.Classify(line)
		if err != nil {
			set.Profiles = r.Profiles()
			set.Diagnostics = r.Diagnostics()
			return set, err
		}
		if outcome.Emits() {
			out = append(out, outcome.Text)
		}
	}

	set.LinesOut = len(out)
	set.Profiles = r.Profiles()
	set.Diagnostics = r.Diagnostics()

	if err := ppd.WriteLines(set.OutputPath, out); err != nil {
		return set, err
	}
	return set, nil
}

func dropped() types.Outcome {
	return types.Outcome{Kind: types.OutcomeDropped}
}

func withTrailingSeparator(dir string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir
	}
	return dir + string(os.PathSeparator)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// copyFile copies src to dst, replacing dst and carrying over the
// permission bits of src.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copying profile %s: %w", src, err)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("copying profile %s: source and destination are the same file", src)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("copying profile to %s: %w", dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copying profile %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("copying profile to %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying profile to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("copying profile to %s: %w", dst, err)
	}
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("copying profile to %s: %w", dst, err)
	}
	return nil
}
