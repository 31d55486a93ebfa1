package conversation

import (
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel"
)

// ReplyKind is the kind of input a user sent
type ReplyKind string

// Reply kinds
const (
	ReplySelection ReplyKind = "selection"
	ReplyText      ReplyKind = "text"
	ReplyCancel    ReplyKind = "cancel"
)

// Reply is one user input for the active flow
type Reply struct {
	Kind  ReplyKind
	Value string
}

// Selection is a button press
func Selection(value string) Reply { return Reply{Kind: ReplySelection, Value: value} }

// Text is a free-text answer
func Text(value string) Reply { return Reply{Kind: ReplyText, Value: value} }

// Cancel aborts the active flow
func Cancel() Reply { return Reply{Kind: ReplyCancel} }

// Status is where a flow stands after a step
type Status string

// Statuses
const (
	// StatusPrompt means the flow advanced and waits for Prompt
	StatusPrompt Status = "prompt"
	// StatusRejected means the input was not accepted, Prompt is issued again
	StatusRejected  Status = "rejected"
	StatusResolved  Status = "resolved"
	StatusCancelled Status = "cancelled"
)

// Prompt asks for the input of one step
type Prompt struct {
	Step    entities.Step
	Message string
	// Options are offered as buttons, empty for free-text steps
	Options []string
	// Expects is the reply kind the step accepts
	Expects ReplyKind
}

// Outcome is the result of a resolved flow. Exactly one field is set, matching Flow.
type Outcome struct {
	Flow       entities.FlowKind
	Roll       *dice.RollDiceOutput
	Resolution *tables.Result
	Travel     *travel.TravelOutput
	// Bonus is the stored carry-over bonus of a bonus flow
	Bonus *int
}

// StartFlowInput enters a flow, discarding any flow already active
type StartFlowInput struct {
	ConversationID string
	Kind           entities.FlowKind
}

// StartFlowOutput holds the first prompt
type StartFlowOutput struct {
	Status Status
	Prompt *Prompt
}

// SubmitInput feeds one reply to the active flow
type SubmitInput struct {
	ConversationID string
	Reply          Reply
}

// SubmitOutput describes the step taken
type SubmitOutput struct {
	Status Status
	// Prompt is set for StatusPrompt and StatusRejected
	Prompt *Prompt
	// Reason explains a rejection
	Reason  string
	Outcome *Outcome
}

// CancelFlowInput identifies the conversation
type CancelFlowInput struct {
	ConversationID string
}

// CancelFlowOutput reports whether a flow was active
type CancelFlowOutput struct {
	Cancelled bool
}

// GetFlowInput identifies the conversation
type GetFlowInput struct {
	ConversationID string
}

// GetFlowOutput holds the active flow, nil when idle
type GetFlowOutput struct {
	Flow entities.FlowState
}
