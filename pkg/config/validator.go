package config

import (
	"errors"
	"fmt"
	"os"
)

// Validation errors.
var (
	ErrPartialTLSMaterial = errors.New("certificate and key must be configured together")
	ErrTLSMaterial        = errors.New("unusable TLS certificate material")
	ErrInvalidRule        = errors.New("invalid scenario rule")
)

// Validate checks the session configuration. TLS material problems are
// configuration errors and must be caught here, before any listener
// starts.
func (c *SessionConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("%w: certFile=%q keyFile=%q", ErrPartialTLSMaterial, c.CertFile, c.KeyFile)
	}
	if (len(c.CertPEM) == 0) != (len(c.KeyPEM) == 0) {
		return fmt.Errorf("%w: inline material is partial", ErrPartialTLSMaterial)
	}

	if !c.TLS {
		return nil
	}

	for _, path := range []string{c.CertFile, c.KeyFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTLSMaterial, path, err)
		}
	}
	return nil
}

// HasTLSMaterial reports whether explicit certificate material is
// configured (inline or file-based). Without it a TLS session falls
// back to a generated self-signed identity.
func (c *SessionConfig) HasTLSMaterial() bool {
	return len(c.CertPEM) > 0 || c.CertFile != ""
}

// Validate checks the scenario's session configuration and every rule.
func (sc *Scenario) Validate() error {
	if err := sc.SessionConfig.Validate(); err != nil {
		return err
	}
	for i := range sc.Rules {
		if err := sc.Rules[i].validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

func (r *ScenarioRule) validate() error {
	switch r.Kind {
	case RuleExpect, RuleExpectOnce, RuleExpectNone, RuleStub:
	case "":
		return fmt.Errorf("%w: missing kind", ErrInvalidRule)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}

	// A method filter only narrows an existing path filter.
	if r.Method != "" && r.Path == "" {
		return fmt.Errorf("%w: method filter requires a path", ErrInvalidRule)
	}

	if r.Kind == RuleExpectNone && r.Response != nil {
		return fmt.Errorf("%w: expect-none rules cannot carry a response", ErrInvalidRule)
	}

	if r.Response != nil && (r.Response.Status < 0 || r.Response.Status > 599) {
		return fmt.Errorf("%w: invalid response status %d", ErrInvalidRule, r.Response.Status)
	}
	return nil
}
