package engine

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addRule registers a rule directly on a registry, bypassing the
// Coordinator, for pure matcher tests.
func addRule(reg *Registry, kind Kind, method, path string) *Rule {
	r := &Rule{
		ID:      fmt.Sprintf("rule-%d", len(reg.rules)),
		Kind:    kind,
		Method:  method,
		Path:    path,
		Handler: func(http.ResponseWriter, *http.Request) {},
		outcome: Outcome{State: OutcomeWaiting},
	}
	reg.add(r)
	return r
}

func TestSpecificityRanking(t *testing.T) {
	tests := []struct {
		name         string
		method, path string
		want         Specificity
	}{
		{"exact", "GET", "/a", SpecExact},
		{"path only", "", "/a", SpecPathOnly},
		{"wildcard", "", "", SpecWildcard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rule{Method: tt.method, Path: tt.path}
			assert.Equal(t, tt.want, specificity(r))
		})
	}
}

func TestAccepts(t *testing.T) {
	tests := []struct {
		name         string
		rule         *Rule
		method, path string
		want         bool
	}{
		{"wildcard matches anything", &Rule{}, "GET", "/whatever", true},
		{"exact match", &Rule{Method: "GET", Path: "/a"}, "GET", "/a", true},
		{"method mismatch", &Rule{Method: "GET", Path: "/a"}, "POST", "/a", false},
		{"path mismatch", &Rule{Method: "GET", Path: "/a"}, "GET", "/b", false},
		{"method case-insensitive", &Rule{Method: "get", Path: "/a"}, "GET", "/a", true},
		{"path is exact", &Rule{Method: "GET", Path: "/a"}, "GET", "/a/", false},
		{"path-only matches any method", &Rule{Path: "/a"}, "DELETE", "/a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accepts(tt.rule, tt.method, tt.path))
		})
	}
}

func TestRouteExactOutranksWildcard(t *testing.T) {
	t.Run("wildcard registered first", func(t *testing.T) {
		reg := NewRegistry()
		addRule(reg, KindStub, "", "")
		exact := addRule(reg, KindOnce, "GET", "/narrow")

		dec := route(reg, "GET", "/narrow")
		require.Equal(t, DecisionDispatch, dec.Kind)
		assert.Equal(t, exact.ID, dec.RuleID)
	})

	t.Run("wildcard registered last", func(t *testing.T) {
		reg := NewRegistry()
		exact := addRule(reg, KindOnce, "GET", "/narrow")
		addRule(reg, KindStub, "", "")

		dec := route(reg, "GET", "/narrow")
		require.Equal(t, DecisionDispatch, dec.Kind)
		assert.Equal(t, exact.ID, dec.RuleID)
	})
}

func TestRoutePathOnlyBetweenExactAndWildcard(t *testing.T) {
	reg := NewRegistry()
	addRule(reg, KindStub, "", "")
	pathOnly := addRule(reg, KindStub, "", "/a")
	exact := addRule(reg, KindStub, "GET", "/a")

	dec := route(reg, "GET", "/a")
	require.Equal(t, DecisionDispatch, dec.Kind)
	assert.Equal(t, exact.ID, dec.RuleID)

	dec = route(reg, "PUT", "/a")
	require.Equal(t, DecisionDispatch, dec.Kind)
	assert.Equal(t, pathOnly.ID, dec.RuleID)
}

func TestRouteRegistrationOrderBreaksTies(t *testing.T) {
	reg := NewRegistry()
	first := addRule(reg, KindAlways, "GET", "/a")
	addRule(reg, KindAlways, "GET", "/a")

	for i := 0; i < 3; i++ {
		dec := route(reg, "GET", "/a")
		require.Equal(t, DecisionDispatch, dec.Kind)
		assert.Equal(t, first.ID, dec.RuleID, "earliest registration must keep winning")
	}
}

func TestRouteOnceRulesConsumedInOrder(t *testing.T) {
	reg := NewRegistry()
	r1 := addRule(reg, KindOnce, "GET", "/x")
	r2 := addRule(reg, KindOnce, "GET", "/x")

	dec := route(reg, "GET", "/x")
	require.Equal(t, DecisionDispatch, dec.Kind)
	assert.Equal(t, r1.ID, dec.RuleID)

	dec = route(reg, "GET", "/x")
	require.Equal(t, DecisionDispatch, dec.Kind)
	assert.Equal(t, r2.ID, dec.RuleID)

	dec = route(reg, "GET", "/x")
	assert.Equal(t, DecisionExceeded, dec.Kind)
	assert.Contains(t, dec.Message, "GET /x")
}

func TestRouteConsumedOnceFallsBackToStub(t *testing.T) {
	// A consumed one-shot rule only produces Exceeded when nothing else
	// matches; a surviving stub still gets the request.
	reg := NewRegistry()
	once := addRule(reg, KindOnce, "GET", "/x")
	stub := addRule(reg, KindStub, "GET", "/x")

	dec := route(reg, "GET", "/x")
	require.Equal(t, DecisionDispatch, dec.Kind)
	assert.Equal(t, once.ID, dec.RuleID)

	dec = route(reg, "GET", "/x")
	require.Equal(t, DecisionDispatch, dec.Kind)
	assert.Equal(t, stub.ID, dec.RuleID)
}

func TestRouteNoneIsViolation(t *testing.T) {
	reg := NewRegistry()
	addRule(reg, KindStub, "", "")
	none := addRule(reg, KindNone, "DELETE", "/forbidden")
	none.Handler = nil

	dec := route(reg, "DELETE", "/forbidden")
	assert.Equal(t, DecisionViolation, dec.Kind)
	assert.Contains(t, dec.Message, "none were expected")
	assert.Nil(t, dec.Handler)

	// Other requests still reach the stub.
	dec = route(reg, "GET", "/forbidden")
	assert.Equal(t, DecisionDispatch, dec.Kind)
}

func TestRouteUnmatched(t *testing.T) {
	reg := NewRegistry()

	dec := route(reg, "GET", "/")
	assert.Equal(t, DecisionUnmatched, dec.Kind)
	assert.Equal(t, "unexpected request: GET /", dec.Message)
}

func TestRouteUnmatchedWithNonAcceptingRules(t *testing.T) {
	reg := NewRegistry()
	addRule(reg, KindAlways, "GET", "/a")

	dec := route(reg, "GET", "/b")
	assert.Equal(t, DecisionUnmatched, dec.Kind)
}
