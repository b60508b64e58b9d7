// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ppd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
)

// Decoder wraps r so that ISO-8859-1 bytes are read as UTF-8 text.
func Decoder(r io.Reader) io.Reader {
	return charmap.ISO8859_1.NewDecoder().Reader(r)
}

// WriteLines writes lines to path, each followed by a single "\n", encoded
// as ISO-8859-1. A rune outside Latin-1 is an error. An existing file is
// truncated.
func WriteLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	enc := charmap.ISO8859_1.NewEncoder()
	for i, line := range lines {
		b, err := enc.String(line + "\n")
		if err != nil {
			f.Close()
			return fmt.Errorf("encoding line %d of %s: %w", i+1, path, err)
		}
		if _, err := bw.WriteString(b); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
