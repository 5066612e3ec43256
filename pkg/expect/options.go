package expect

import "log/slog"

// Option customizes a Server before it starts listening.
type Option func(*Server)

// WithLogger sets the operational logger. The default discards all
// output so the endpoint stays quiet inside test runs.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTLS enables HTTPS with a generated self-signed test identity,
// unless certificate material is also configured.
func WithTLS() Option {
	return func(s *Server) {
		s.cfg.TLS = true
	}
}

// WithPort pins the listen port instead of picking an ephemeral one.
func WithPort(port int) Option {
	return func(s *Server) {
		s.cfg.Port = port
	}
}

// WithCertFiles serves the given PEM certificate and key files.
// Implies nothing about TLS being enabled; combine with WithTLS.
func WithCertFiles(certFile, keyFile string) Option {
	return func(s *Server) {
		s.cfg.CertFile = certFile
		s.cfg.KeyFile = keyFile
	}
}

// WithCertPEM serves the given inline PEM certificate material.
// Takes precedence over WithCertFiles. Combine with WithTLS.
func WithCertPEM(certPEM, keyPEM []byte) Option {
	return func(s *Server) {
		s.cfg.CertPEM = certPEM
		s.cfg.KeyPEM = keyPEM
	}
}
