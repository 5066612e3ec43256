// HTTP boundary between the transport and the expectation engine.

package engine

import (
	"log/slog"
	"net/http"

	"github.com/getmockd/expectd/pkg/logging"
)

// Dispatcher is the http.Handler that bridges the transport and the
// Coordinator. It asks the Coordinator for a routing decision, runs the
// matched rule's handler outside the Coordinator's loop, and reports
// the outcome back. Handler failures never propagate to the transport:
// they are captured, answered as HTTP 500, and held on the rule until
// teardown.
type Dispatcher struct {
	coord *Coordinator
	log   *slog.Logger
}

// NewDispatcher creates a Dispatcher for the given Coordinator.
func NewDispatcher(coord *Coordinator, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Dispatcher{coord: coord, log: log}
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dec, err := d.coord.Match(r.Method, r.URL.Path)
	if err != nil {
		// Session torn down while the listener was draining.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if dec.Kind != DecisionDispatch {
		d.log.Debug("request refused",
			"method", r.Method, "path", r.URL.Path, "reason", dec.Kind)
		// The error is queued for teardown and answered immediately.
		_ = d.coord.RecordSessionError(dec.Message)
		http.Error(w, dec.Message, http.StatusInternalServerError)
		return
	}

	d.invoke(dec, w, r)
}

// invoke runs the matched handler with panic capture. A normal return
// settles the rule as Called and the handler's own response goes to the
// client untouched. A raised failure answers 500 with the diagnostic
// and settles the rule as Raised; it is re-surfaced at teardown, never
// here, because the connection goroutine is not the test's context.
func (d *Dispatcher) invoke(dec RouteDecision, w http.ResponseWriter, r *http.Request) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		f := capturedFailure(v)
		d.log.Debug("handler failure captured",
			"method", r.Method, "path", r.URL.Path, "error", f.Message)
		// Settle the outcome before answering, so a teardown racing
		// this response can only observe the rule as Raised.
		_ = d.coord.ReportOutcome(dec.RuleID, Outcome{State: OutcomeRaised, Failure: f})
		http.Error(w, f.Message, http.StatusInternalServerError)
	}()

	dec.Handler(w, r)
	_ = d.coord.ReportOutcome(dec.RuleID, Outcome{State: OutcomeCalled})
}
