package metrics

import (
	obserrors "github.com/target/attractions-admin/internal/observability/errors"
	"github.com/target/attractions-admin/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultAdopted = "adopted"
	ResultCleared = "cleared"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Session events.
const (
	EventLogin     = "login"
	EventLogout    = "logout"
	EventRehydrate = "rehydrate"
)

// SessionMetric captures one session lifecycle event.
type SessionMetric struct {
	Event  string
	Result string
	Err    error
}

// EmitSession emits session.<event> counters tagged with the result and, for
// failures, the innermost error type.
func EmitSession(sink statsd.Sink, in SessionMetric) {
	if sink == nil || in.Event == "" {
		return
	}

	var tags map[string]string
	if in.Result != "" {
		tags = map[string]string{"result": in.Result}
	}
	if in.Err != nil && (in.Result == ResultFailure || in.Result == ResultError) {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("session."+in.Event, 1, tags)
}

// GuardMetric captures one route guard decision.
type GuardMetric struct {
	Route    string
	Decision string
}

// EmitGuard emits a guard.decision counter.
func EmitGuard(sink statsd.Sink, in GuardMetric) {
	if sink == nil {
		return
	}
	sink.Count("guard.decision", 1, map[string]string{"route": in.Route, "decision": in.Decision})
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k != "" {
			out[k] = v
		}
	}
	return out
}
