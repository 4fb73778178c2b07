package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBody(t *testing.T) {
	body, err := readBody(strings.NewReader("🇩🇪:🇪🇸 2:1\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "🇩🇪:🇪🇸 2:1\n", body)

	body, err = readBody(strings.NewReader("GER:ESP 0:0"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "GER:ESP 0:0", body)

	path := filepath.Join(t.TempDir(), "message.txt")
	require.NoError(t, os.WriteFile(path, []byte("FRA:ITA 1:1"), 0o600))
	body, err = readBody(nil, []string{path})
	require.NoError(t, err)
	assert.Equal(t, "FRA:ITA 1:1", body)

	_, err = readBody(nil, []string{filepath.Join(t.TempDir(), "missing.txt")})
	assert.ErrorContains(t, err, "failed to read message")
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"apply", "replay", "schema", "unresolved"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, applyCmd.Flags().Lookup("dry-run"))
}
