package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/a2sdecode/internal/capture"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := ParseArgs([]string{"capture.pcap"})
	require.NoError(t, err)

	assert.Equal(t, []string{"capture.pcap"}, cfg.Args.Files)
	assert.Equal(t, "auto", cfg.Input.Format)
	assert.Equal(t, 4, cfg.Input.Workers)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, 5*time.Second, cfg.Decode.FragmentTTL)
	assert.Equal(t, "a2sdecode.db", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logger.Level)

	opts := cfg.Pipeline()
	assert.Equal(t, a2s.FragmentOptions{Dialect: a2s.FragmentSource}, opts.Fragments)
	assert.Equal(t, a2s.Strict, opts.Completion)
	assert.Equal(t, capture.FormatAuto, cfg.Files().Format)
}

func TestParseDecodeOptions(t *testing.T) {
	cfg, err := ParseArgs([]string{
		"--decode-app-id", "240", "--decode-protocol", "7", "--decode-lenient",
		"--input-port", "27015", "--input-port", "27016",
		"-o", "json", "a.hex", "b.hex",
	})
	require.NoError(t, err)

	assert.Equal(t, a2s.FragmentOptions{Dialect: a2s.FragmentSource, OmitSize: true}, cfg.FragmentOptions())
	assert.Equal(t, a2s.Lenient, cfg.Pipeline().Completion)
	assert.Equal(t, []uint16{27015, 27016}, cfg.Files().Ports)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Len(t, cfg.Args.Files, 2)

	cfg, err = ParseArgs([]string{"--decode-fragments", "goldsource", "a.hex"})
	require.NoError(t, err)
	assert.Equal(t, a2s.FragmentGoldSource, cfg.FragmentOptions().Dialect)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("A2S_OUTPUT_FORMAT", "json")
	t.Setenv("A2S_DB_ARCHIVE", "true")

	cfg, err := ParseArgs([]string{"a.hex"})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Storage.Archive)
}

func TestParseValidation(t *testing.T) {
	_, err := ParseArgs(nil)
	assert.ErrorContains(t, err, "no input files")

	_, err = ParseArgs([]string{"--serve"})
	assert.ErrorContains(t, err, "auth-token")

	cfg, err := ParseArgs([]string{"--serve", "-t", "secret"})
	require.NoError(t, err)
	assert.True(t, cfg.Server.Serve)

	cfg, err = ParseArgs([]string{"--db-prune-before", "72h"})
	require.NoError(t, err)
	assert.True(t, cfg.Maintenance())
	assert.Equal(t, 72*time.Hour, cfg.Storage.PruneBefore)

	_, err = ParseArgs([]string{"--input-format", "xml", "a.hex"})
	assert.Error(t, err)
}
