package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "entitlements dev")
}

func TestUserFlag(t *testing.T) {
	require.NoError(t, syncCmd.Flags().Set("user", ""))
	_, err := userFlag(syncCmd)
	assert.ErrorIs(t, err, errUserRequired)

	require.NoError(t, syncCmd.Flags().Set("user", "not-a-uuid"))
	_, err = userFlag(syncCmd)
	assert.Error(t, err)

	require.NoError(t, syncCmd.Flags().Set("user", "6f1c1a5e-7c1b-4c35-9d8e-2b1d0f4c9a11"))
	id, err := userFlag(syncCmd)
	require.NoError(t, err)
	assert.Equal(t, "6f1c1a5e-7c1b-4c35-9d8e-2b1d0f4c9a11", id.String())
}

func TestLoadResolver(t *testing.T) {
	r, err := loadResolver("")
	require.NoError(t, err)
	assert.NotEmpty(t, r.Tiers())

	_, err = loadResolver(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
