package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "draw-state.json", cfg.StateFile)
	require.Equal(t, 50, cfg.MaxNumber)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("MAX_NUMBER", "100")
	t.Setenv("CLAIM_TIMEOUT", "500ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, 100, cfg.MaxNumber)
	require.Equal(t, "500ms", cfg.ClaimTimeout.String())
}

func TestLoadRejectsBadPool(t *testing.T) {
	t.Setenv("MAX_NUMBER", "0")
	_, err := Load()
	require.Error(t, err)
}
