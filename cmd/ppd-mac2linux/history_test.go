// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ppd-mac2linux/internal/history"
)

// convertWithHistory runs one conversion of name that records into dbPath.
func convertWithHistory(t *testing.T, resDir, name, dbPath string) {
	t.Helper()
	require.NoError(t, os.WriteFile(resDir+name,
		[]byte("*%Platform: MacOS\n*cupsFilter: \"x 0 y\"\n*End\n"), 0o644))
	code, stdout, _ := runCLI(t, "--history", dbPath, name, t.TempDir())
	require.Equal(t, 0, code, stdout)
}

func TestHistoryList(t *testing.T) {
	resDir := withResourceDir(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	convertWithHistory(t, resDir, "First.ppd", dbPath)
	convertWithHistory(t, resDir, "Second.ppd", dbPath)

	code, stdout, _ := runCLI(t, "history", "--db", dbPath)

	require.Equal(t, 0, code, stdout)
	assert.Contains(t, stdout, "First.ppd")
	assert.Contains(t, stdout, "Second.ppd")
	assert.Contains(t, stdout, "2/3")
	assert.Contains(t, stdout, "2 runs")
	assert.Less(t, strings.Index(stdout, "Second.ppd"), strings.Index(stdout, "First.ppd"), "newest run is listed first")
}

func TestHistoryJSON(t *testing.T) {
	resDir := withResourceDir(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	convertWithHistory(t, resDir, "Acme.ppd", dbPath)

	code, stdout, _ := runCLI(t, "history", "--db", dbPath, "--json", "--limit", "5")
	require.Equal(t, 0, code, stdout)

	var runs []history.Run
	require.NoError(t, json.Unmarshal([]byte(stdout), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "Acme.ppd", runs[0].FileName)
	assert.Equal(t, 3, runs[0].LinesIn)
	assert.Equal(t, 2, runs[0].LinesOut)
	assert.Equal(t, 1, runs[0].Warnings)
}

func TestHistoryFromConfig(t *testing.T) {
	resDir := withResourceDir(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	convertWithHistory(t, resDir, "Acme.ppd", dbPath)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history_db: "+dbPath+"\n"), 0o644))

	code, stdout, _ := runCLI(t, "history", "--config", cfgPath)
	require.Equal(t, 0, code, stdout)
	assert.Contains(t, stdout, "Acme.ppd")
}

func TestHistoryMissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "absent.db")

	code, stdout, _ := runCLI(t, "history", "--db", dbPath)

	assert.Equal(t, 0, code)
	assert.Equal(t, "No conversions recorded.\n", stdout)
	assert.NoFileExists(t, dbPath)
}

func TestHistoryNotConfigured(t *testing.T) {
	code, stdout, _ := runCLI(t, "history")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Error: no history database")
}

func TestHistoryRejectsArguments(t *testing.T) {
	code, stdout, _ := runCLI(t, "history", "extra")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Usage:")
}

