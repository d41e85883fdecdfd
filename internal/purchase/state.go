// Package purchase implements the purchase session aggregate: the lifecycle
// state machine, the biller cascade, fraud gating, line items and their
// transactions, and payload round-tripping for persistence.
package purchase

import "fmt"

// State is a stage of the purchase session lifecycle.
type State string

// Lifecycle states. Processed is terminal.
const (
	StateCreated                State = "created"
	StateValid                  State = "valid"
	StateProcessing             State = "processing"
	StatePending                State = "pending"
	StateRedirected             State = "redirected"
	StateThreeDLookupPerformed  State = "threedlookupperformed"
	StateThreeDAuthenticated    State = "threedauthenticated"
	StateBlockedDueToFraud      State = "blockedduetofraudadvice"
	StateProcessed              State = "processed"
)

// ParseState validates a persisted state string.
func ParseState(value string) (State, error) {
	switch State(value) {
	case StateCreated, StateValid, StateProcessing, StatePending, StateRedirected,
		StateThreeDLookupPerformed, StateThreeDAuthenticated, StateBlockedDueToFraud,
		StateProcessed:
		return State(value), nil
	}
	return "", fmt.Errorf("unknown purchase state %q", value)
}

// IsTerminal reports whether no further transitions are possible.
func (s State) IsTerminal() bool {
	return s == StateProcessed
}

// Command is a named state-machine transition request.
type Command string

// State-machine commands.
const (
	CommandValidate            Command = "validate"
	CommandStartProcessing     Command = "startProcessing"
	CommandStartPending        Command = "startPending"
	CommandRedirect            Command = "redirect"
	CommandPerformThreeDLookup Command = "performThreeDLookup"
	CommandAuthenticateThreeD  Command = "authenticateThreeD"
	CommandFinishProcessing    Command = "finishProcessing"
	CommandBlockDueToFraud     Command = "blockDueToFraudAdvice"
)

// transitions is the full legality table: transitions[state][command] is the
// next state. Absent pairs are illegal.
var transitions = map[State]map[Command]State{
	StateCreated: {
		CommandValidate:         StateValid,
		CommandBlockDueToFraud:  StateBlockedDueToFraud,
		CommandFinishProcessing: StateProcessed,
	},
	StateValid: {
		CommandStartProcessing:  StateProcessing,
		CommandBlockDueToFraud:  StateBlockedDueToFraud,
		CommandFinishProcessing: StateProcessed,
	},
	StateProcessing: {
		CommandStartPending:        StatePending,
		CommandRedirect:            StateRedirected,
		CommandPerformThreeDLookup: StateThreeDLookupPerformed,
		CommandAuthenticateThreeD:  StateThreeDAuthenticated,
		CommandValidate:            StateValid,
		CommandBlockDueToFraud:     StateBlockedDueToFraud,
		CommandFinishProcessing:    StateProcessed,
	},
	StateThreeDLookupPerformed: {
		CommandAuthenticateThreeD: StateThreeDAuthenticated,
		CommandValidate:           StateValid,
		CommandBlockDueToFraud:    StateBlockedDueToFraud,
		CommandFinishProcessing:   StateProcessed,
	},
	StateThreeDAuthenticated: {
		CommandStartProcessing:  StateProcessing,
		CommandBlockDueToFraud:  StateBlockedDueToFraud,
		CommandFinishProcessing: StateProcessed,
	},
	StateRedirected: {
		CommandBlockDueToFraud:  StateBlockedDueToFraud,
		CommandFinishProcessing: StateProcessed,
	},
	StatePending: {
		CommandBlockDueToFraud:  StateBlockedDueToFraud,
		CommandFinishProcessing: StateProcessed,
	},
	StateBlockedDueToFraud: {
		CommandValidate:         StateValid,
		CommandFinishProcessing: StateProcessed,
	},
	StateProcessed: {},
}

// IllegalStateTransitionError reports a command that is not legal for the
// session's current state. The state machine is left unchanged.
type IllegalStateTransitionError struct {
	From    State
	Command Command
}

func (e *IllegalStateTransitionError) Error() string {
	return fmt.Sprintf("illegal state transition: cannot %s from state %s", e.Command, e.From)
}

// Next resolves the state reached by applying command in from.
func Next(from State, command Command) (State, error) {
	legal, ok := transitions[from]
	if !ok {
		return "", fmt.Errorf("unknown purchase state %q", from)
	}
	next, ok := legal[command]
	if !ok {
		return "", &IllegalStateTransitionError{From: from, Command: command}
	}
	return next, nil
}

// CanTransition reports whether command is legal in from.
func CanTransition(from State, command Command) bool {
	_, err := Next(from, command)
	return err == nil
}
