package expect

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/getmockd/expectd/pkg/config"
	"github.com/getmockd/expectd/pkg/engine"
	"github.com/getmockd/expectd/pkg/logging"
	mocktls "github.com/getmockd/expectd/pkg/tls"
)

// shutdownTimeout bounds how long teardown waits for in-flight
// connections to drain before closing them.
const shutdownTimeout = 5 * time.Second

// Server is one mock endpoint session: one listener, one expectation
// engine, one lifecycle from start to teardown.
type Server struct {
	cfg      *config.SessionConfig
	coord    *engine.Coordinator
	httpSrv  *http.Server
	listener net.Listener
	url      string
	log      *slog.Logger
	client   *http.Client

	teardownOnce sync.Once
	verdict      engine.Verdict
}

// NewServer starts a mock endpoint for the given test and registers a
// cleanup hook that verifies all expectations at test end. The server
// listens on an ephemeral loopback port unless configured otherwise.
func NewServer(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	s, err := StartServer(config.DefaultSessionConfig(), opts...)
	if err != nil {
		tb.Fatalf("failed to start mock endpoint: %v", err)
	}
	tb.Cleanup(func() { s.Verify(tb) })
	return s
}

// StartServer starts a mock endpoint with an explicit lifecycle: the
// caller must call Teardown (or Verify) when done. Configuration
// errors, including unusable TLS material, are reported before any
// listener is started.
func StartServer(cfg *config.SessionConfig, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.DefaultSessionConfig()
	}

	s := &Server{cfg: cfg, log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	var tlsCfg *tls.Config
	var pool *x509.CertPool
	if s.cfg.TLS {
		var err error
		tlsCfg, pool, err = buildTLS(s.cfg)
		if err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	s.coord = engine.NewCoordinator(engine.WithLogger(s.log))
	s.httpSrv = &http.Server{
		Handler:      engine.NewDispatcher(s.coord, s.log),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
	}

	scheme := "http"
	transport := &http.Transport{}
	if tlsCfg != nil {
		scheme = "https"
		ln = tls.NewListener(ln, tlsCfg)
		transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	}

	s.listener = ln
	s.url = fmt.Sprintf("%s://%s", scheme, ln.Addr().String())
	s.client = &http.Client{Transport: transport}

	s.log.Info("mock endpoint listening", "url", s.url)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("mock endpoint serve error", "error", err)
		}
	}()

	return s, nil
}

// buildTLS resolves the session's certificate material: inline PEM
// first, then files, then a generated self-signed identity. The
// returned pool trusts the served certificate and is handed to
// Client().
func buildTLS(cfg *config.SessionConfig) (*tls.Config, *x509.CertPool, error) {
	var cert tls.Certificate
	var err error

	switch {
	case len(cfg.CertPEM) > 0:
		cert, err = tls.X509KeyPair(cfg.CertPEM, cfg.KeyPEM)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", config.ErrTLSMaterial, err)
		}
	case cfg.CertFile != "":
		cert, err = tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", config.ErrTLSMaterial, err)
		}
	default:
		id, genErr := mocktls.GenerateIdentity(nil)
		if genErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", config.ErrTLSMaterial, genErr)
		}
		return &tls.Config{
			Certificates: []tls.Certificate{id.Certificate},
			MinVersion:   tls.VersionTLS12,
		}, id.ClientPool(), nil
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", config.ErrTLSMaterial, err)
	}
	pool := x509.NewCertPool()
	pool.AddCert(leaf)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, pool, nil
}

// URL returns the endpoint's base URL, e.g. "http://127.0.0.1:40213".
func (s *Server) URL() string {
	return s.url
}

// Addr returns the endpoint's listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Port returns the port the endpoint is listening on.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Client returns an *http.Client wired to trust the session's
// certificate when TLS is enabled.
func (s *Server) Client() *http.Client {
	return s.client
}

// Teardown computes the final verdict and stops the listener. It is
// idempotent; later calls return the same verdict.
func (s *Server) Teardown() engine.Verdict {
	s.teardownOnce.Do(func() {
		v, err := s.coord.Teardown()
		if err != nil {
			// Coordinator already torn down directly; nothing to add.
			return
		}
		s.verdict = v

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.log.Warn("forcing listener close", "error", err)
			_ = s.httpSrv.Close()
		}
		s.log.Info("mock endpoint stopped", "verdict", s.verdict.Kind)
	})
	return s.verdict
}

// Verify tears the session down and translates the verdict into the
// test framework's convention: Ok passes silently, an unmet expectation
// or session error fails with its message, and a captured handler
// failure is re-surfaced with its original message and stack.
func (s *Server) Verify(tb testing.TB) {
	tb.Helper()

	v := s.Teardown()
	switch v.Kind {
	case engine.VerdictError:
		tb.Errorf("mock endpoint: %s", v.Message)
	case engine.VerdictException:
		f := v.Failure
		if f.Structured() {
			tb.Errorf("mock endpoint handler: %s\n%s", f.Message, f.Stack)
		} else {
			tb.Errorf("mock endpoint handler panicked: %v\n%s", f.Value, f.Stack)
		}
	}
}
