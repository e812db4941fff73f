package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/multiversion/internal/codegen"
	"github.com/23skdu/multiversion/internal/config"
	mverrors "github.com/23skdu/multiversion/internal/errors"
)

const manifest = `package: demo
functions:
  - name: Square
    params: x []float64
    default: squareGeneric
    variants:
      - target: x86_64+avx+avx2
        fn: squareAVX2
      - target: x86_64+avx
        fn: squareAVX
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "multiversion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))
	return path
}

func TestTargets(t *testing.T) {
	out, err := run(t, "targets", "[x86|x86_64]+avx2+avx", "aarch64+neon")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "x86+avx+avx2")
	assert.Contains(t, lines[1], "x86_64+avx+avx2")
	assert.Contains(t, lines[1], "AVX_AVX2")
	assert.Contains(t, lines[1], "arch == x86_64 && avx && avx2")
	assert.Contains(t, lines[2], "arch == aarch64 && neon")
}

func TestTargetsRejectsInvalid(t *testing.T) {
	_, err := run(t, "targets", "x86_64+avx+")
	assert.ErrorIs(t, err, mverrors.ErrEmptyFeatureToken)

	_, err = run(t, "targets")
	assert.Error(t, err)
}

func TestGen(t *testing.T) {
	path := writeManifest(t)
	output := filepath.Join(filepath.Dir(path), "square_gen.go")

	_, err := run(t, "gen", "-f", path, "-o", output)
	require.NoError(t, err)

	src, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), codegen.Header))
	assert.Contains(t, string(src), "func Square(x []float64) {")
}

func TestGenToStdout(t *testing.T) {
	out, err := run(t, "gen", "-f", writeManifest(t), "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "package demo")
}

func TestGenWritesNothingOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package: demo\nfunctions:\n  - name: F\n"), 0o644))
	output := filepath.Join(dir, "out.go")

	_, err := run(t, "gen", "-f", path, "-o", output)
	assert.ErrorIs(t, err, mverrors.ErrMissingDefault)
	assert.NoFileExists(t, output)
}

func TestInspectSimulated(t *testing.T) {
	path := writeManifest(t)

	out, err := run(t, "inspect", "-f", path, "--simulate", "x86_64+avx")
	require.NoError(t, err)
	assert.Contains(t, out, "Square")
	assert.Regexp(t, `\* 3\s+x86_64\+avx\s+squareAVX\n`, out)
	assert.Regexp(t, `  1\s+default\s+squareGeneric\n`, out)

	out, err = run(t, "inspect", "-f", path, "--simulate", "aarch64+neon", "--json")
	require.NoError(t, err)
	var fns []inspectFunction
	require.NoError(t, json.Unmarshal([]byte(out), &fns))
	require.Len(t, fns, 1)
	require.Len(t, fns[0].Entries, 3)
	def := fns[0].Entries[2]
	assert.True(t, def.Selected)
	assert.Equal(t, "squareGeneric", def.Variant)
	assert.Equal(t, "static", fns[0].Strategy, "no entry for aarch64 means nothing to probe")
}

func TestInspectRejectsBadSimulation(t *testing.T) {
	_, err := run(t, "inspect", "-f", writeManifest(t), "--simulate", "z80+avx")
	assert.ErrorIs(t, err, mverrors.ErrInvalidArchitecture)
}

func TestDetect(t *testing.T) {
	out, err := run(t, "detect", "--json")
	require.NoError(t, err)

	var r detectReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.NotEmpty(t, r.Arch)
	assert.NotNil(t, r.Features)
}

func TestDetectHonoursForceGeneric(t *testing.T) {
	t.Setenv("MULTIVERSION_FORCE_GENERIC", "true")

	out, err := run(t, "detect", "--json")
	require.NoError(t, err)
	var r detectReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Empty(t, r.Features)
}

func TestEnvFile(t *testing.T) {
	const key = "MULTIVERSION_LOG_LEVEL"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=loud\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", envFile, "targets", "x86_64+avx"})
	assert.ErrorIs(t, cmd.Execute(), config.ErrInvalidLogLevel)
}
