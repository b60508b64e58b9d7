// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ppd

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// latin1 holds "*ModelName: \"Café\"" with é as the single byte 0xE9.
var latin1 = []byte("*ModelName: \"Caf\xe9\"\n")

func resourceDir(t *testing.T) string {
	t.Helper()
	return t.TempDir() + string(filepath.Separator)
}

func writeGzip(t *testing.T, path string, data []byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestLoad(t *testing.T) {
	content := []byte("*PPD-Adobe: \"4.3\"\r\n*%Platform: MacOS\r\n  *Indented: keep  \r\n")
	want := []string{`*PPD-Adobe: "4.3"`, "*%Platform: MacOS", "  *Indented: keep"}

	tests := []struct {
		name       string
		fileName   string
		setup      func(t *testing.T, path string)
		wantExists bool
		wantLines  []string
	}{
		{
			name:     "plain ppd",
			fileName: "Printer.ppd",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, content, 0o644))
			},
			wantExists: true,
			wantLines:  want,
		},
		{
			name:     "uppercase ppd suffix",
			fileName: "Printer.PPD",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, content, 0o644))
			},
			wantExists: true,
			wantLines:  want,
		},
		{
			name:     "gzip compressed",
			fileName: "Printer.gz",
			setup: func(t *testing.T, path string) {
				writeGzip(t, path, content)
			},
			wantExists: true,
			wantLines:  want,
		},
		{
			name:     "uppercase gz suffix",
			fileName: "Printer.GZ",
			setup: func(t *testing.T, path string) {
				writeGzip(t, path, content)
			},
			wantExists: true,
			wantLines:  want,
		},
		{
			name:       "missing file",
			fileName:   "Absent.ppd",
			setup:      func(t *testing.T, path string) {},
			wantExists: false,
		},
		{
			name:     "unknown suffix is present but unread",
			fileName: "Printer.txt",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, content, 0o644))
			},
			wantExists: true,
		},
		{
			name:     "directory is not a document",
			fileName: "Folder.ppd",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.Mkdir(path, 0o755))
			},
			wantExists: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := resourceDir(t)
			tt.setup(t, dir+tt.fileName)

			doc, err := Load(dir, tt.fileName)
			require.NoError(t, err)
			assert.Equal(t, tt.fileName, doc.FileName)
			assert.Equal(t, dir+tt.fileName, doc.SourcePath)
			assert.Equal(t, tt.wantExists, doc.Exists)
			assert.Equal(t, tt.wantLines, doc.Lines)
		})
	}
}

func TestLoadCorruptGzip(t *testing.T) {
	dir := resourceDir(t)
	require.NoError(t, os.WriteFile(dir+"Broken.gz", []byte("not gzip data"), 0o644))

	doc, err := Load(dir, "Broken.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decompressing")
	assert.True(t, doc.Exists)
}

func TestLoadDecodesLatin1(t *testing.T) {
	dir := resourceDir(t)
	require.NoError(t, os.WriteFile(dir+"Cafe.ppd", latin1, 0o644))

	doc, err := Load(dir, "Cafe.ppd")
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, "*ModelName: \"Café\"", doc.Lines[0])
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty input", input: "", want: nil},
		{name: "unix newlines", input: "a\nb\n", want: []string{"a", "b"}},
		{name: "windows newlines", input: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "classic mac newlines", input: "a\rb\r", want: []string{"a", "b"}},
		{name: "mixed newlines", input: "a\rb\r\nc\nd", want: []string{"a", "b", "c", "d"}},
		{name: "no final newline", input: "a\nb", want: []string{"a", "b"}},
		{name: "blank lines kept", input: "a\n\n\nb\n", want: []string{"a", "", "", "b"}},
		{name: "trailing whitespace removed", input: "*Key: x \t\n", want: []string{"*Key: x"}},
		{name: "leading whitespace kept", input: "   indented\n", want: []string{"   indented"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLines(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadLinesLongLine(t *testing.T) {
	long := strings.Repeat("x", 3<<20)
	got, err := ReadLines(strings.NewReader(long + "\nend\n"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0], len(long))
}

func TestReadLinesTrimsLatin1Whitespace(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{name: "no-break space", input: []byte("*Key: x\xa0\n"), want: "*Key: x"},
		{name: "next line", input: []byte("*Key: x\x85\n"), want: "*Key: x"},
		{name: "separators", input: []byte("*Key: x\x1c\x1d\x1e\x1f\n"), want: "*Key: x"},
		{name: "mixed run", input: []byte("*Key: x \xa0\t\x85\n"), want: "*Key: x"},
		{name: "leading no-break space kept", input: []byte("\xa0*Key\n"), want: "\u00a0*Key"},
		{name: "interior no-break space kept", input: []byte("*Key: a\xa0b\n"), want: "*Key: a\u00a0b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLines(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, got)
		})
	}
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ppd")

	require.NoError(t, WriteLines(path, []string{"*ModelName: \"Café\"", "", "*End"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("*ModelName: \"Caf\xe9\"\n\n*End\n"), data)
}

func TestWriteLinesTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ppd")
	require.NoError(t, os.WriteFile(path, []byte("previous content that is longer\n"), 0o644))

	require.NoError(t, WriteLines(path, []string{"short"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "short\n", string(data))
}

func TestWriteLinesRejectsNonLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ppd")

	err := WriteLines(path, []string{"ok", "*PCFileName: \"打印机.ppd\""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoding line 2")
}
