package eventtree

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/guldfisk/eventtree/pkg/eventtree/config"
	"github.com/guldfisk/eventtree/pkg/eventtree/dispatch"
	"github.com/guldfisk/eventtree/pkg/eventtree/observability"
)

// Condition is the minimal contract the root package needs from a
// connectable condition. The full taxonomy lives in the condition
// subpackage and satisfies this interface structurally, so this package
// never needs to import condition (which imports this one).
type Condition interface {
	Connect() error
	Disconnect() error
}

// TriggerHandle is the minimal contract a firing Trigger condition must
// satisfy to be queued by the built-in Triggered event and later drained
// by ResolveTriggers.
type TriggerHandle interface {
	// Resolve runs the trigger's deferred action against circumstance,
	// the values bag captured at the moment it fired.
	Resolve(circumstance Values) (any, error)
}

// Chooser selects one Replacement from a set of simultaneously offered
// candidates. The default, DefaultChooser, picks the smallest TimeStamp.
type Chooser func(candidates []Replacement) (Replacement, error)

// SessionOption configures a Session at construction time.
type SessionOption func(*Session)

// WithChooser overrides the default replacement chooser.
func WithChooser(c Chooser) SessionOption {
	return func(s *Session) { s.chooser = c }
}

// WithDispatcher overrides the default LocalDispatcher, e.g. to share a
// Dispatcher across Sessions or to instrument it.
func WithDispatcher(d dispatch.Dispatcher) SessionOption {
	return func(s *Session) { s.dispatcher = d }
}

// WithLogger attaches a structured logger. Events in the resolution
// pipeline log their lifecycle through it; nil (the default) disables
// logging.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithMetrics attaches a metrics recorder. observability.NoopMetrics{}
// (the default) disables metrics.
func WithMetrics(m observability.MetricsRecorder) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// WithSpanManager attaches a span manager. observability.NoopSpanManager{}
// (the default) disables tracing.
func WithSpanManager(sm observability.SpanManager) SessionOption {
	return func(s *Session) { s.spans = sm }
}

// WithConfig attaches a configuration snapshot, returned unchanged by
// Config. The Session itself reads no setting from it.
func WithConfig(cfg config.Config) SessionOption {
	return func(s *Session) { s.config = cfg }
}

// triggerPack pairs a fired Trigger with the circumstance it fired
// under, queued by the built-in Triggered event for later batch
// resolution via ResolveTriggers.
type triggerPack struct {
	trigger      TriggerHandle
	circumstance Values
}

// Session is the process-wide state holder for one logical game or
// simulation run: it owns the Dispatcher, the event log, the trigger
// queue, and the replacement chooser. A Session is not safe for
// concurrent use — resolution is single-threaded and synchronous by
// design.
type Session struct {
	id         string
	dispatcher dispatch.Dispatcher
	eventLog   []Event
	triggers   []triggerPack

	chooser    Chooser
	conditions map[Condition]struct{}

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	config  config.Config
}

// NewSession constructs a ready-to-use Session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:         uuid.New().String(),
		dispatcher: dispatch.NewLocalDispatcher(),
		chooser:    DefaultChooser,
		conditions: make(map[Condition]struct{}),
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
		config:     config.New(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the Session's unique identifier, assigned once at
// construction and stable for the Session's lifetime. It correlates log
// lines and spans from the same run without callers threading their own
// correlation ID through every call.
func (s *Session) ID() string { return s.id }

// Dispatcher exposes the Session's Dispatcher for domain-level raw
// Connect/Send access — e.g. a condition's Connect implementation
// registers its load handler here directly.
func (s *Session) Dispatcher() dispatch.Dispatcher { return s.dispatcher }

// Config exposes the Session's configuration snapshot, for domain event
// types that want a tunable (a retry policy, a feature toggle) without
// threading it through every Values map by hand.
func (s *Session) Config() config.Config { return s.config }

// EventLog returns the session's event log: every event that reached
// the logging step of the resolution pipeline, in logging order.
func (s *Session) EventLog() []Event {
	out := make([]Event, len(s.eventLog))
	copy(out, s.eventLog)
	return out
}

// TriggerQueue returns the number of triggers awaiting batch resolution
// via ResolveTriggers. The queued triggers themselves are not exposed.
func (s *Session) TriggerQueue() int { return len(s.triggers) }

// GetTimeStamp returns the current length of the event log — the
// timestamp the next logged event, or a condition connecting right now,
// would receive.
func (s *Session) GetTimeStamp() int { return len(s.eventLog) }

// logEvent appends ev to the event log and fixes its permanent ordinal.
// Called by resolve() once an event has passed its Check step.
func (s *Session) logEvent(ev Event) {
	ts := len(s.eventLog)
	ev.(baseHolder).baseOf().setTimeStamp(ts)
	s.eventLog = append(s.eventLog, ev)
	observability.LogEventLogged(s.logger, ev.Name(), ts)
}

// resolveReactions is the domain extension point spec'd in the event
// lifecycle's steps 6 and 9. The Reaction/PostReaction condition
// variants connect under "_react_"/"_post_react_" prefixed signals;
// firing them here (rather than leaving them as plain Dispatcher
// listeners on the bare class-name signal) lets a Reaction's return
// value be distinguished from a Response's, even though both currently
// just observe without altering the payload result.
func (s *Session) resolveReactions(ctx context.Context, ev Event, name string, post bool) error {
	prefix := "_react_"
	if post {
		prefix = "_post_react_"
	}
	_, err := s.sessSend(ctx, prefix+name, dispatch.Values{"source": ev})
	if err != nil {
		return &HandlerError{Signal: prefix + name, Err: err}
	}
	return nil
}

// notifyFinished reports whether ev's payload succeeded. It exists as a
// seam for observability (metrics/logging) rather than altering
// resolution behavior — the notify phase itself is the plain class-name
// Dispatcher send in resolve(), handled separately.
func (s *Session) notifyFinished(ev Event, success bool) {
	if !success {
		observability.LogEventError(s.logger, ev.Name(), "payload", errors.New("payload returned an error"))
	}
}

// chooseReplacement asks the Session to pick one Replacement among
// simultaneously offered candidates, itself as a ChooseReplacement
// event so the choice is observable and replaceable like any other
// resolution.
func (s *Session) chooseReplacement(candidates []Replacement) (Replacement, error) {
	result, err := Resolve[*chooseReplacementEvent](s, nil, Values{"options": candidates})
	if err != nil {
		return nil, err
	}
	chosen, _ := result.(Replacement)
	return chosen, nil
}

// DefaultChooser picks the Replacement with the smallest TimeStamp
// (earliest connected); ties are broken by candidate order, which is
// itself Dispatcher registration order.
func DefaultChooser(candidates []Replacement) (Replacement, error) {
	if len(candidates) == 0 {
		return nil, ErrNoReplacementOptions
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.TimeStamp() < best.TimeStamp() {
			best = c
		}
	}
	return best, nil
}

// CreateCondition connects an already-constructed condition by
// resolving a ConnectCondition event for it, so the connection itself is
// observable and replaceable. Domain code builds the condition value
// itself (e.g. via condition.NewReplacement) and passes it here;
// construction is plain Go code and only the connection runs as an
// event, so a replacement or reaction can intercept the connection step.
func (s *Session) CreateCondition(c Condition, opts ...ParentOption) error {
	return s.ConnectCondition(c, opts...)
}

// ConnectCondition resolves a ConnectCondition built-in event for an
// already-constructed condition. WithParent(p) nests that event under p
// instead of resolving it as a root event.
func (s *Session) ConnectCondition(c Condition, opts ...ParentOption) error {
	_, err := Resolve[*connectConditionEvent](s, nil, Values{"condition": c}, opts...)
	return err
}

// DisconnectCondition resolves a DisconnectCondition built-in event for
// a connected condition. WithParent(p) nests that event under p instead
// of resolving it as a root event.
func (s *Session) DisconnectCondition(c Condition, opts ...ParentOption) error {
	_, err := Resolve[*disconnectConditionEvent](s, nil, Values{"condition": c}, opts...)
	return err
}

// ResolveTriggers drains the trigger queue in enqueue order, resolving
// each queued trigger against the circumstance it fired under. This is
// a domain extension point, not part of the core resolution pipeline
// (the Python source's OrderTriggers hook remains a documented no-op):
// callers decide when, or whether, to batch-resolve triggers.
func (s *Session) ResolveTriggers() error {
	pending := s.triggers
	s.triggers = nil
	for _, pack := range pending {
		if _, err := pack.trigger.Resolve(pack.circumstance); err != nil {
			return err
		}
	}
	return nil
}

// enqueueTrigger appends a fired trigger to the queue. Called by the
// built-in Triggered event's Payload.
func (s *Session) enqueueTrigger(trigger TriggerHandle, circumstance Values) {
	s.triggers = append(s.triggers, triggerPack{trigger: trigger, circumstance: circumstance})
	observability.LogTriggerEnqueued(s.logger, "Triggered", len(s.triggers))
}
