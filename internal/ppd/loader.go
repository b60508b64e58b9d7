// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ppd loads printer driver description files installed by macOS
// printer drivers. Files may be plain (.ppd) or gzip-compressed (.gz) and
// are always decoded as ISO-8859-1.
package ppd

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/pdiddy/ppd-mac2linux/pkg/types"
)

// ResourceDir is where macOS printer drivers install their description files.
const ResourceDir = "/Library/Printers/PPDs/Contents/Resources/"

const (
	suffixGzip = ".gz"
	suffixPPD  = ".ppd"
)

// Load resolves fileName against dir and reads it. A missing file is not an
// error: the returned document has Exists set to false and no lines. A file
// whose name ends in neither .gz nor .ppd is reported as existing but its
// content is not read.
func Load(dir, fileName string) (types.Document, error) {
	doc := types.Document{
		FileName:   fileName,
		SourcePath: dir + fileName,
	}

	info, err := os.Stat(doc.SourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("checking %s: %w", doc.SourcePath, err)
	}
	if !info.Mode().IsRegular() {
		return doc, nil
	}
	doc.Exists = true

	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, suffixGzip):
		doc.Lines, err = readGzip(doc.SourcePath)
	case strings.HasSuffix(lower, suffixPPD):
		doc.Lines, err = readPlain(doc.SourcePath)
	}
	return doc, err
}

func readPlain(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

func readGzip(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	defer zr.Close()

	lines, err := ReadLines(zr)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// ReadLines decodes r as ISO-8859-1 and splits it into lines. "\n", "\r\n"
// and a lone "\r" all end a line. Trailing whitespace is removed from every
// line; leading whitespace is kept. Lines have no length limit.
func ReadLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(Decoder(r))
	if err != nil {
		return nil, err
	}
	return splitLines(string(data)), nil
}

// splitLines splits text on any of the three newline conventions. A final
// line without a terminator is kept; an empty text has no lines.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, trimLine(text[start:i]))
			start = i + 1
		case '\r':
			lines = append(lines, trimLine(text[start:i]))
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, trimLine(text[start:]))
	}
	return lines
}

// trimLine strips trailing whitespace as Latin-1 text defines it, which
// includes NEL (0x85), no-break space (0xA0) and the 0x1C-0x1F separators.
func trimLine(s string) string {
	return strings.TrimRightFunc(s, isLineSpace)
}

func isLineSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
