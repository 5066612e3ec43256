package expect

import (
	"net/http"

	"github.com/getmockd/expectd/pkg/engine"
)

// register submits a rule, logging instead of failing if the session is
// already torn down (registration on a live session never fails).
func (s *Server) register(kind engine.Kind, method, path string, h http.HandlerFunc) {
	_, err := s.coord.Register(engine.Rule{
		Kind:    kind,
		Method:  method,
		Path:    path,
		Handler: h,
	})
	if err != nil {
		s.log.Warn("registration after teardown ignored", "kind", kind, "method", method, "path", path)
	}
}

// Register registers pre-built engine rules in order, e.g. rules
// converted from a scenario file.
func (s *Server) Register(rules ...engine.Rule) {
	for _, r := range rules {
		s.register(r.Kind, r.Method, r.Path, r.Handler)
	}
}

// Expect registers an expectation matching any request. The test fails
// at verification if no request ever reaches it.
func (s *Server) Expect(h http.HandlerFunc) {
	s.register(engine.KindAlways, "", "", h)
}

// ExpectMatch registers an expectation for the exact method and path.
func (s *Server) ExpectMatch(method, path string, h http.HandlerFunc) {
	s.register(engine.KindAlways, method, path, h)
}

// ExpectOnce registers a one-shot expectation matching any request; it
// is consumed by the first match, and further matching requests are
// answered as exceeded.
func (s *Server) ExpectOnce(h http.HandlerFunc) {
	s.register(engine.KindOnce, "", "", h)
}

// ExpectOnceMatch registers a one-shot expectation for the exact method
// and path. Several one-shot expectations with the same filter are
// consumed in registration order.
func (s *Server) ExpectOnceMatch(method, path string, h http.HandlerFunc) {
	s.register(engine.KindOnce, method, path, h)
}

// ExpectNone declares that no request at all is expected; any arriving
// request fails the test.
func (s *Server) ExpectNone() {
	s.register(engine.KindNone, "", "", nil)
}

// ExpectNoneMatch declares that no request with the exact method and
// path is expected.
func (s *Server) ExpectNoneMatch(method, path string) {
	s.register(engine.KindNone, method, path, nil)
}

// Stub registers a handler matching any request. Stubs never affect
// the verdict: unused stubs are fine, and stubbed calls are not
// required.
func (s *Server) Stub(h http.HandlerFunc) {
	s.register(engine.KindStub, "", "", h)
}

// StubMatch registers a stub for the exact method and path.
func (s *Server) StubMatch(method, path string, h http.HandlerFunc) {
	s.register(engine.KindStub, method, path, h)
}

// ForcePass discards every pending expectation, captured failure and
// session error, making verification succeed unconditionally. An
// explicit escape hatch for tests that tolerate unmatched interactions.
func (s *Server) ForcePass() {
	if err := s.coord.ForcePass(); err != nil {
		s.log.Warn("force pass after teardown ignored")
	}
}
