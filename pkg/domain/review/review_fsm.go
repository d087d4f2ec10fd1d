// Package review tracks an asset through validation and regeneration rounds.
package review

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration.
const (
	StatePending           = "pending"
	StateApproved          = "approved"
	StateNeedsRegeneration = "needs_regeneration"
	StateRejected          = "rejected"
)

// Events accepted by the review machine.
const (
	EventApprove  = "approve"
	EventFlag     = "flag"
	EventResubmit = "resubmit"
	EventReject   = "reject"
	EventReopen   = "reopen"
)

// Context carries the data guards need.
type Context struct {
	AssetID     string
	Attempts    int
	MaxAttempts int
}

// StateMachine wraps a statekit interpreter for one asset.
type StateMachine struct {
	interpreter *statekit.Interpreter[Context]
}

// NewStateMachine builds a machine starting at initialState. Resubmission is only
// allowed while attempts remain; rejection only once they are used up.
func NewStateMachine(initialState, assetID string, attempts, maxAttempts int) (*StateMachine, error) {
	builder := statekit.NewMachine[Context]("asset-review").
		WithInitial(statekit.StateID(initialState)).
		WithContext(Context{
			AssetID:     assetID,
			Attempts:    attempts,
			MaxAttempts: maxAttempts,
		}).
		WithGuard("attemptsRemain", func(ctx Context, e statekit.Event) bool {
			return ctx.MaxAttempts <= 0 || ctx.Attempts < ctx.MaxAttempts
		}).
		WithGuard("attemptsExhausted", func(ctx Context, e statekit.Event) bool {
			return ctx.MaxAttempts > 0 && ctx.Attempts >= ctx.MaxAttempts
		})

	builder.State(StatePending).
		On(EventApprove).Target(StateApproved).
		On(EventFlag).Target(StateNeedsRegeneration).
		Done()

	builder.State(StateNeedsRegeneration).
		On(EventResubmit).Target(StatePending).Guard("attemptsRemain").
		On(EventReject).Target(StateRejected).Guard("attemptsExhausted").
		Done()

	builder.State(StateApproved).
		On(EventReopen).Target(StatePending).
		Done()

	builder.State(StateRejected).
		On(EventReopen).Target(StatePending).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build review state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &StateMachine{interpreter: interpreter}, nil
}

// Transition sends an event and reports an error when the state did not change.
func (sm *StateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Current() != before {
		return nil
	}
	return fmt.Errorf("the action '%s' is not allowed while the asset is '%s'", event, before)
}

// Current returns the current state.
func (sm *StateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}
