// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfig points APIVET_CFG_FILE at a temp config file with the given
// content and resets the global Config around the test function.
func withConfig(t *testing.T, content string, fn func(t *testing.T)) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "apivet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("APIVET_CFG_FILE", path)

	Config = Type{}
	defer func() { Config = Type{} }()

	_, _ = Load()
	fn(t)
}

func TestLoad(t *testing.T) {
	withConfig(t, "color: never\nmanifest-path: sub/go.mod\n", func(t *testing.T) {
		assert.NotEmpty(t, Config.Source)
		assert.Equal(t, "never", Config.Data["color"])
		assert.Equal(t, "sub/go.mod", Config.Data["manifest-path"])
	})
}

func TestGetString(t *testing.T) {
	withConfig(t, "color: always\ndeny:\n  rules:\n    - removed\n    - changed\n", func(t *testing.T) {
		got, err := GetString("color")
		require.NoError(t, err)
		assert.Equal(t, "always", got)

		// Missing key with a default.
		got, err = GetString("missing", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "fallback", got)

		// Missing key without a default.
		_, err = GetString("missing")
		assert.Error(t, err)
	})
}

func TestGetStringSliceDotted(t *testing.T) {
	withConfig(t, "deny:\n  rules:\n    - removed\n    - changed\n", func(t *testing.T) {
		got, err := GetStringSlice("deny.rules")
		require.NoError(t, err)
		assert.Equal(t, []string{"removed", "changed"}, got)
	})
}

func TestGetBool(t *testing.T) {
	withConfig(t, "force-checkouts: true\n", func(t *testing.T) {
		got, err := GetBool("force-checkouts")
		require.NoError(t, err)
		assert.True(t, got)

		got, err = GetBool("missing", false)
		require.NoError(t, err)
		assert.False(t, got)
	})
}

func TestFileMissingConfig(t *testing.T) {
	t.Setenv("APIVET_CFG_FILE", "")
	// Force the user config dir somewhere empty.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	assert.Equal(t, "", File())
}
