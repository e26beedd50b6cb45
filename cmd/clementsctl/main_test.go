package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/clements/mesh"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), err
}

func TestParseMatrix(t *testing.T) {
	m, err := parseMatrix([]byte(`{"real": [[0, 1], [1, 0]], "imag": [[0, 0], [0, 0.5]]}`))
	require.NoError(t, err)
	assert.Equal(t, complex(1, 0), m.At(0, 1))
	assert.Equal(t, complex(0, 0.5), m.At(1, 1))

	m, err = parseMatrix([]byte("real:\n  - [1, 0]\n  - [0, 1]\n"))
	require.NoError(t, err)
	assert.Equal(t, complex(1, 0), m.At(1, 1), "imag is optional")

	for name, body := range map[string]string{
		"empty":      "real: []\n",
		"ragged":     "real:\n  - [1, 0]\n  - [0]\n",
		"imag rows":  "real: [[1]]\nimag: [[0], [0]]\n",
		"imag width": "real: [[1, 0], [0, 1]]\nimag: [[0], [0]]\n",
	} {
		_, err := parseMatrix([]byte(body))
		assert.ErrorIs(t, err, mesh.ErrMalformedInput, name)
	}
}

func TestDecomposeCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("real: [[0, 1], [1, 0]]\n"), 0o600))

	out, err := run(t, "decompose", "--matrix", path)
	require.NoError(t, err)

	var rep decomposeReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 2, rep.N)
	assert.Equal(t, "heater", rep.Addressing)
	require.Len(t, rep.Elements, 1)
	assert.InDelta(t, 1.5707963, rep.Elements[0].Theta, 1e-6)
	assert.Less(t, rep.MaxError, 1e-9)
	assert.Len(t, rep.Program.Levels, 4)
	assert.Len(t, rep.Program.Bytes, 8, "four 8-bit levels as hex")

	out, err = run(t, "decompose", "--matrix", path, "--format", "yaml")
	require.NoError(t, err)
	var asYAML map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &asYAML))
	assert.Equal(t, 2, asYAML["n"])

	_, err = run(t, "decompose", "--matrix", path, "--format", "xml")
	assert.Error(t, err)

	_, err = run(t, "decompose", "--matrix", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEncodeCmd(t *testing.T) {
	out, err := run(t, "encode", "--values", "1,0")
	require.NoError(t, err)

	var rep programReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []uint64{0, 127}, rep.Levels)
	assert.Equal(t, "007f", rep.Bytes)

	out, err = run(t, "encode", "--values", "0.25", "--intensity")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Len(t, rep.Levels, 1)

	_, err = run(t, "encode", "--values", "1.5")
	assert.Error(t, err)
}

func TestVerifyCmd(t *testing.T) {
	out, err := run(t, "verify", "--size", "4", "--count", "3", "--seed", "9", "--workers", "2")
	require.NoError(t, err)

	var rep verifyReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Passed)
	assert.Equal(t, 3, rep.Count)
	assert.Less(t, rep.MaxError, 1e-6)

	_, err = run(t, "verify", "--count", "0")
	assert.Error(t, err)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clements.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device:\n  resolution: 12\nmesh:\n  addressing: half-angle\n"), 0o600))

	out, err := run(t, "--config", path, "encode", "--values", "0")
	require.NoError(t, err)
	var rep programReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []uint64{2047}, rep.Levels, "half scale at 12 bits")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("device:\n  rounding: ceil\n"), 0o600))
	_, err = run(t, "--config", bad, "encode", "--values", "0")
	assert.Error(t, err)
}
