package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/beam-cloud/pngme/pkg/common"
	"github.com/beam-cloud/pngme/pkg/png"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePng(t *testing.T, path string) {
	t.Helper()
	ct, err := png.ChunkTypeFromString("IHDR")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, png.New(png.NewChunk(ct, []byte("header"))).Bytes(), 0644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "disabled"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dice.png")
	writePng(t, path)

	out, err := run(t, "encode", path, "ruSt", "This is a secret message!")
	require.NoError(t, err)
	assert.Equal(t, "Encoded ruSt chunk (25 bytes)\n", out)

	out, err = run(t, "decode", path, "ruSt")
	require.NoError(t, err)
	assert.Equal(t, "This is a secret message!\n", out)

	out, err = run(t, "print", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Contains 2 chunks...")
	assert.Contains(t, out, "1: ruSt (25 bytes)")

	out, err = run(t, "scan", dir, "ruSt")
	require.NoError(t, err)
	assert.Equal(t, path+": 1 ruSt chunk(s)\n", out)

	out, err = run(t, "remove", path, "ruSt")
	require.NoError(t, err)
	assert.Equal(t, "Removed ruSt chunk: This is a secret message!\n", out)

	_, err = run(t, "decode", path, "ruSt")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestEncodeOutputFlag(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePng(t, in)

	_, err := run(t, "encode", "--output", out, in, "RuSt", "copied")
	require.NoError(t, err)

	message, err := run(t, "decode", out, "RuSt")
	require.NoError(t, err)
	assert.Equal(t, "copied\n", message)

	_, err = run(t, "decode", in, "RuSt")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCommandArgs(t *testing.T) {
	_, err := run(t, "encode", "only-a-path")
	require.Error(t, err)

	_, err = run(t, "print")
	require.Error(t, err)

	_, err = run(t, "--log-level", "loud", "print", "x.png")
	require.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("PNGME_TEST_STRING", "value")
	t.Setenv("PNGME_TEST_INT", "12")
	t.Setenv("PNGME_TEST_BAD_INT", "twelve")
	t.Setenv("PNGME_TEST_BOOL", "TRUE")

	assert.Equal(t, "value", getEnvString("PNGME_TEST_STRING", "default"))
	assert.Equal(t, "default", getEnvString("PNGME_TEST_UNSET", "default"))
	assert.Equal(t, 12, getEnvInt("PNGME_TEST_INT", 8))
	assert.Equal(t, 8, getEnvInt("PNGME_TEST_BAD_INT", 8))
	assert.True(t, getEnvBool("PNGME_TEST_BOOL"))
	assert.False(t, getEnvBool("PNGME_TEST_UNSET"))
}
