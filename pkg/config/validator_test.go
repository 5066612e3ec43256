package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultSessionConfig().Validate())
	})

	t.Run("invalid port", func(t *testing.T) {
		cfg := &SessionConfig{Port: 70000}
		assert.Error(t, cfg.Validate())
	})

	t.Run("cert file without key file", func(t *testing.T) {
		cfg := &SessionConfig{TLS: true, CertFile: "cert.pem"}
		assert.ErrorIs(t, cfg.Validate(), ErrPartialTLSMaterial)
	})

	t.Run("inline cert without key", func(t *testing.T) {
		cfg := &SessionConfig{TLS: true, CertPEM: []byte("x")}
		assert.ErrorIs(t, cfg.Validate(), ErrPartialTLSMaterial)
	})

	t.Run("partial material rejected even without tls", func(t *testing.T) {
		cfg := &SessionConfig{CertFile: "cert.pem"}
		assert.ErrorIs(t, cfg.Validate(), ErrPartialTLSMaterial)
	})

	t.Run("tls with missing files", func(t *testing.T) {
		dir := t.TempDir()
		cfg := &SessionConfig{
			TLS:      true,
			CertFile: filepath.Join(dir, "nope.pem"),
			KeyFile:  filepath.Join(dir, "nope-key.pem"),
		}
		assert.ErrorIs(t, cfg.Validate(), ErrTLSMaterial)
	})

	t.Run("tls with readable files", func(t *testing.T) {
		dir := t.TempDir()
		cert := filepath.Join(dir, "cert.pem")
		key := filepath.Join(dir, "key.pem")
		require.NoError(t, os.WriteFile(cert, []byte("cert"), 0o600))
		require.NoError(t, os.WriteFile(key, []byte("key"), 0o600))

		cfg := &SessionConfig{TLS: true, CertFile: cert, KeyFile: key}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("tls without material is valid", func(t *testing.T) {
		// Falls back to a generated self-signed identity.
		cfg := &SessionConfig{TLS: true}
		assert.NoError(t, cfg.Validate())
		assert.False(t, cfg.HasTLSMaterial())
	})
}

func TestScenarioRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    ScenarioRule
		wantErr bool
	}{
		{"stub wildcard", ScenarioRule{Kind: RuleStub}, false},
		{"expect with filter", ScenarioRule{Kind: RuleExpect, Method: "GET", Path: "/a"}, false},
		{"path only", ScenarioRule{Kind: RuleStub, Path: "/a"}, false},
		{"missing kind", ScenarioRule{}, true},
		{"unknown kind", ScenarioRule{Kind: "sometimes"}, true},
		{"method without path", ScenarioRule{Kind: RuleExpect, Method: "GET"}, true},
		{"expect-none with response", ScenarioRule{Kind: RuleExpectNone, Response: &ResponseSpec{Status: 200}}, true},
		{"bad status", ScenarioRule{Kind: RuleStub, Response: &ResponseSpec{Status: 1000}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &Scenario{Rules: []ScenarioRule{tt.rule}}
			err := sc.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRule)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
