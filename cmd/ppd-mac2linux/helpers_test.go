// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"compress/gzip"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeGzipFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}
