package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/on-the-ground/factor_ive_go/config"
	"github.com/on-the-ground/factor_ive_go/factor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_PrintsFactorPair(t *testing.T) {
	out, err := execute(t, "--log-level", "error", "124705700219")
	require.NoError(t, err)
	assert.Equal(t, "124705700219 = 336703 * 370373\n", out)
}

func TestRoot_WithProgress(t *testing.T) {
	out, err := execute(t, "--progress", "--log-level", "error", "--workers", "2", "143")
	require.NoError(t, err)
	assert.Equal(t, "143 = 11 * 13\n", out)
}

func TestRoot_NoSplit(t *testing.T) {
	out, err := execute(t, "--log-level", "error", "17")
	require.NoError(t, err)
	assert.Equal(t, "17: no two-prime factorization found\n", out)
}

func TestRoot_MalformedInput(t *testing.T) {
	_, err := execute(t, "12x")
	assert.ErrorIs(t, err, factor.ErrMalformedInput)
}

func TestRoot_NonPositive(t *testing.T) {
	_, err := execute(t, "--log-level", "error", "0")
	assert.ErrorIs(t, err, factor.ErrNonPositive)
}

func TestRoot_RequiresExactlyOneArgument(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
	_, err = execute(t, "143", "221")
	assert.Error(t, err)
}

func TestRoot_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factorize.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\nchunk_size: 8\nlog_level: error\n"), 0o600))

	out, err := execute(t, "--config", path, "221")
	require.NoError(t, err)
	assert.Equal(t, "221 = 13 * 17\n", out)

	_, err = execute(t, "--config", path, "--log-level", "loud", "221")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "221")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
