package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadScenarioYAML(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
port: 8080
rules:
  - kind: stub
    method: GET
    path: /hello
    response:
      status: 200
      headers:
        Content-Type: text/plain
      body: "Hello, World"
  - kind: expect-none
    method: DELETE
    path: /hello
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, sc.Port)
	require.Len(t, sc.Rules, 2)
	assert.Equal(t, RuleStub, sc.Rules[0].Kind)
	assert.Equal(t, "GET", sc.Rules[0].Method)
	assert.Equal(t, "/hello", sc.Rules[0].Path)
	assert.Equal(t, "Hello, World", sc.Rules[0].Response.Body)
	assert.Equal(t, RuleExpectNone, sc.Rules[1].Kind)
}

func TestLoadScenarioJSON(t *testing.T) {
	path := writeFile(t, "scenario.json", `{
  "tls": true,
  "rules": [
    {"kind": "expect", "method": "POST", "path": "/orders", "response": {"status": 201}}
  ]
}`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.True(t, sc.TLS)
	require.Len(t, sc.Rules, 1)
	assert.Equal(t, RuleExpect, sc.Rules[0].Kind)
	assert.Equal(t, 201, sc.Rules[0].Response.Status)
}

func TestLoadScenarioErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := LoadScenario(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.yaml", "")
		_, err := LoadScenario(path)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "rules: [\n")
		_, err := LoadScenario(path)
		assert.ErrorIs(t, err, ErrInvalidYAML)
	})

	t.Run("bad json", func(t *testing.T) {
		path := writeFile(t, "bad.json", "{not json")
		_, err := LoadScenario(path)
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})

	t.Run("invalid rule rejected", func(t *testing.T) {
		path := writeFile(t, "invalid.yaml", `
rules:
  - kind: maybe
`)
		_, err := LoadScenario(path)
		assert.ErrorIs(t, err, ErrInvalidRule)
	})
}
