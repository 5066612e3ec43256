// Package expect provides a programmable mock HTTP(S) endpoint for
// tests. A test starts a server, registers the interactions it expects
// the client under test to perform, and points the client at the
// server's URL. At test end the server verifies that every expectation
// was met and re-surfaces any assertion failure raised inside a
// handler, attributed to the owning test.
//
// # Basic Usage
//
//	func TestCheckout(t *testing.T) {
//	    s := expect.NewServer(t)
//	    s.ExpectOnceMatch("POST", "/orders", func(w http.ResponseWriter, r *http.Request) {
//	        w.WriteHeader(http.StatusCreated)
//	    })
//	    s.StubMatch("GET", "/health", func(w http.ResponseWriter, r *http.Request) {
//	        w.WriteHeader(http.StatusOK)
//	    })
//
//	    runCheckout(t, s.URL())
//	    // verification happens automatically via t.Cleanup
//	}
//
// Narrow expectations always outrank wildcard stubs, so a catch-all
// stub can be registered in any order relative to the expectations it
// backs up.
//
// # Assertions inside handlers
//
// Handlers run on connection goroutines, not the test's goroutine, so
// testing.T must not be used inside them. Use the package's assertion
// helpers instead; their failures answer the client with HTTP 500 and
// fail the test at verification time with the original message:
//
//	s.Expect(func(w http.ResponseWriter, r *http.Request) {
//	    expect.Equal("application/json", r.Header.Get("Content-Type"))
//	    w.WriteHeader(http.StatusOK)
//	})
//
// # TLS
//
// With WithTLS the server provisions a self-signed test identity and
// Client() returns an *http.Client that trusts it:
//
//	s := expect.NewServer(t, expect.WithTLS())
//	resp, err := s.Client().Get(s.URL() + "/secure")
package expect
