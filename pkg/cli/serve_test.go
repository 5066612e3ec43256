package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/getmockd/expectd/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBuildScenarioFlagOverrides(t *testing.T) {
	path := writeScenario(t, `
port: 8080
rules:
  - kind: stub
    path: /ping
`)

	sc, err := buildScenario(serveFlags{scenarioFile: path, port: 9090, tls: true})
	require.NoError(t, err)

	assert.Equal(t, 9090, sc.Port)
	assert.True(t, sc.TLS)
	require.Len(t, sc.Rules, 1)
}

func TestBuildScenarioKeepsFileValues(t *testing.T) {
	path := writeScenario(t, `
port: 8080
rules:
  - kind: stub
`)

	sc, err := buildScenario(serveFlags{scenarioFile: path})
	require.NoError(t, err)

	assert.Equal(t, 8080, sc.Port)
	assert.False(t, sc.TLS)
}

func TestBuildScenarioMissingFile(t *testing.T) {
	_, err := buildScenario(serveFlags{scenarioFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestBuildScenarioRejectsPartialTLS(t *testing.T) {
	path := writeScenario(t, `
rules:
  - kind: stub
`)

	_, err := buildScenario(serveFlags{scenarioFile: path, tls: true, certFile: "only-cert.pem"})
	assert.ErrorIs(t, err, config.ErrPartialTLSMaterial)
}
