package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "benc.yaml")
	require.Nil(t, ioutil.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestParseConfigFile(t *testing.T) {
	path := writeConfig(t, `
benc:
  debug: true
  metrics_addr: "127.0.0.1:6880"
  codec:
    max_depth: 64
  arena:
    max_bytes: 1048576
    chunk_size: 4096
  http:
    addr: "$BENC_TEST_ADDR"
    read_timeout: 2s
    max_body_bytes: 1024
`)
	os.Setenv("BENC_TEST_ADDR", "127.0.0.1:6881")
	defer os.Unsetenv("BENC_TEST_ADDR")

	cfgFile, err := ParseConfigFile(path)
	require.Nil(t, err)

	cfg := cfgFile.Benc
	require.True(t, cfg.Debug)
	require.Equal(t, "127.0.0.1:6880", cfg.MetricsAddr)
	require.Equal(t, 64, cfg.Codec.Codec().MaxDepth)
	require.Equal(t, 1048576, cfg.Arena.MaxBytes)
	require.Equal(t, 4096, cfg.Arena.ChunkSize)
	require.Equal(t, 2*time.Second, cfg.HTTPConfig.ReadTimeout)
	require.Equal(t, int64(1024), cfg.HTTPConfig.MaxBodyBytes)

	// Only the path is expanded, not the contents.
	require.Equal(t, "$BENC_TEST_ADDR", cfg.HTTPConfig.Addr)
}

func TestParseConfigFilePathExpansion(t *testing.T) {
	path := writeConfig(t, "benc:\n  debug: true\n")
	os.Setenv("BENC_TEST_CONFIG", path)
	defer os.Unsetenv("BENC_TEST_CONFIG")

	cfgFile, err := ParseConfigFile("$BENC_TEST_CONFIG")
	require.Nil(t, err)
	require.True(t, cfgFile.Benc.Debug)
}

func TestParseConfigFileErrors(t *testing.T) {
	_, err := ParseConfigFile("")
	require.EqualError(t, err, "no config path specified")

	_, err = ParseConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to open config")

	path := writeConfig(t, "benc:\n  unknown_field: 1\n")
	_, err = ParseConfigFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse config")
}

func TestParseDistConfig(t *testing.T) {
	cfgFile, err := ParseConfigFile("../../dist/example_config.yaml")
	require.Nil(t, err)
	require.NotEmpty(t, cfgFile.Benc.HTTPConfig.Addr)
}
