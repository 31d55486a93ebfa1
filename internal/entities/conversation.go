// Package entities provides core data structures for rpg-dicebot.
package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// FlowKind names a multi-step conversation flow
type FlowKind string

// Flow kinds
const (
	FlowEncounter FlowKind = "encounter"
	FlowRoll      FlowKind = "roll"
	FlowTravel    FlowKind = "travel"
	FlowBonus     FlowKind = "bonus"
)

// Step is the parameter a flow is waiting for
type Step string

// Steps. Each one accepts exactly one kind of input.
const (
	StepCollectingCategory   Step = "collecting_category"
	StepCollectingTier       Step = "collecting_tier"
	StepCollectingExpression Step = "collecting_expression"
	StepCollectingCurrent    Step = "collecting_current"
	StepCollectingBonus      Step = "collecting_bonus"
)

// FlowState is the state of one active flow. Only the variants in this package implement
// it, so a session can never mix fields of different flows.
type FlowState interface {
	Kind() FlowKind
	CurrentStep() Step
	flowState()
}

// EncounterFlow collects a category and then a tier for a table resolution
type EncounterFlow struct {
	Step     Step   `json:"step"`
	Category string `json:"category,omitempty"`
}

// Kind implements FlowState
func (EncounterFlow) Kind() FlowKind { return FlowEncounter }

// CurrentStep implements FlowState
func (f EncounterFlow) CurrentStep() Step { return f.Step }

func (EncounterFlow) flowState() {}

// RollFlow collects a dice expression
type RollFlow struct {
	Step Step `json:"step"`
}

// Kind implements FlowState
func (RollFlow) Kind() FlowKind { return FlowRoll }

// CurrentStep implements FlowState
func (f RollFlow) CurrentStep() Step { return f.Step }

func (RollFlow) flowState() {}

// TravelFlow collects the category the party is travelling from
type TravelFlow struct {
	Step Step `json:"step"`
}

// Kind implements FlowState
func (TravelFlow) Kind() FlowKind { return FlowTravel }

// CurrentStep implements FlowState
func (f TravelFlow) CurrentStep() Step { return f.Step }

func (TravelFlow) flowState() {}

// BonusFlow collects a carry-over bonus for the next resolution
type BonusFlow struct {
	Step Step `json:"step"`
}

// Kind implements FlowState
func (BonusFlow) Kind() FlowKind { return FlowBonus }

// CurrentStep implements FlowState
func (f BonusFlow) CurrentStep() Step { return f.Step }

func (BonusFlow) flowState() {}

// Conversation is the stored state of one conversation's active flow
type Conversation struct {
	ID        string    `json:"id"`
	Flow      FlowState `json:"-"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type conversationJSON struct {
	ID        string        `json:"id"`
	Flow      *flowEnvelope `json:"flow,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type flowEnvelope struct {
	Kind  FlowKind        `json:"kind"`
	State json.RawMessage `json:"state"`
}

// MarshalJSON stores the flow as {"kind": ..., "state": ...}
func (c Conversation) MarshalJSON() ([]byte, error) {
	out := conversationJSON{ID: c.ID, StartedAt: c.StartedAt, UpdatedAt: c.UpdatedAt}
	if c.Flow != nil {
		state, err := json.Marshal(c.Flow)
		if err != nil {
			return nil, err
		}
		out.Flow = &flowEnvelope{Kind: c.Flow.Kind(), State: state}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the flow variant named by its kind
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var in conversationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	c.ID = in.ID
	c.StartedAt = in.StartedAt
	c.UpdatedAt = in.UpdatedAt
	c.Flow = nil
	if in.Flow == nil {
		return nil
	}

	flow, err := decodeFlow(in.Flow.Kind, in.Flow.State)
	if err != nil {
		return err
	}
	c.Flow = flow
	return nil
}

func decodeFlow(kind FlowKind, state json.RawMessage) (FlowState, error) {
	switch kind {
	case FlowEncounter:
		var f EncounterFlow
		err := json.Unmarshal(state, &f)
		return f, err
	case FlowRoll:
		var f RollFlow
		err := json.Unmarshal(state, &f)
		return f, err
	case FlowTravel:
		var f TravelFlow
		err := json.Unmarshal(state, &f)
		return f, err
	case FlowBonus:
		var f BonusFlow
		err := json.Unmarshal(state, &f)
		return f, err
	default:
		return nil, fmt.Errorf("unknown flow kind %q", kind)
	}
}
