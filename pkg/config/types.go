// Package config holds session configuration and the scenario file
// format for the standalone endpoint.
package config

// SessionConfig configures one mock endpoint session.
type SessionConfig struct {
	// TLS enables HTTPS. With no certificate material configured, a
	// self-signed test identity is provisioned at session start.
	TLS bool `json:"tls" yaml:"tls"`

	// CertFile and KeyFile point at PEM files to serve with. Both must
	// be set together.
	CertFile string `json:"certFile,omitempty" yaml:"certFile,omitempty"`
	KeyFile  string `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`

	// CertPEM and KeyPEM carry certificate material inline. Both must
	// be set together; they take precedence over CertFile/KeyFile.
	CertPEM []byte `json:"-" yaml:"-"`
	KeyPEM  []byte `json:"-" yaml:"-"`

	// Port to listen on. 0 picks an ephemeral port.
	Port int `json:"port" yaml:"port"`

	// ReadTimeout and WriteTimeout are in seconds. 0 means no timeout;
	// timeout policy belongs to the transport, never the engine.
	ReadTimeout  int `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`
	WriteTimeout int `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
}

// DefaultSessionConfig returns the defaults: plain HTTP on an ephemeral
// port.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{}
}

// RuleKind names a rule kind in a scenario file.
type RuleKind string

// Scenario file rule kinds.
const (
	RuleExpect     RuleKind = "expect"
	RuleExpectOnce RuleKind = "expect-once"
	RuleExpectNone RuleKind = "expect-none"
	RuleStub       RuleKind = "stub"
)

// ResponseSpec is the canned response a scenario rule serves.
type ResponseSpec struct {
	Status  int               `json:"status,omitempty" yaml:"status,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string            `json:"body,omitempty" yaml:"body,omitempty"`
}

// ScenarioRule is one rule in a scenario file. Method and Path are
// exact-match filters; an empty Path matches any request, and an empty
// Method with a Path matches any method at that path.
type ScenarioRule struct {
	Kind     RuleKind      `json:"kind" yaml:"kind"`
	Method   string        `json:"method,omitempty" yaml:"method,omitempty"`
	Path     string        `json:"path,omitempty" yaml:"path,omitempty"`
	Response *ResponseSpec `json:"response,omitempty" yaml:"response,omitempty"`
}

// Scenario is the standalone endpoint's startup script: a session
// configuration plus the rules to register before listening.
type Scenario struct {
	SessionConfig `yaml:",inline"`

	Rules []ScenarioRule `json:"rules" yaml:"rules"`
}
