package conversation

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
)

// Flow lifecycle events published on the event bus
const (
	EventFlowStarted   = "dicebot.flow.started"
	EventFlowResolved  = "dicebot.flow.resolved"
	EventFlowCancelled = "dicebot.flow.cancelled"
)

// Entity types carried by flow events
const (
	EntityTypeConversation = "conversation"
	EntityTypeFlow         = "flow"
)

// conversationEntity is the event source
type conversationEntity struct {
	id string
}

func (e *conversationEntity) GetID() string   { return e.id }
func (e *conversationEntity) GetType() string { return EntityTypeConversation }

// flowEntity is the event target, its ID is the flow kind
type flowEntity struct {
	kind entities.FlowKind
}

func (e *flowEntity) GetID() string   { return string(e.kind) }
func (e *flowEntity) GetType() string { return EntityTypeFlow }

// Compile-time check that event entities implement core.Entity
var (
	_ core.Entity = (*conversationEntity)(nil)
	_ core.Entity = (*flowEntity)(nil)
)

// publish never fails a step, subscribers are observers only
func (o *orchestrator) publish(ctx context.Context, eventType, conversationID string, kind entities.FlowKind) {
	event := events.NewGameEvent(eventType, &conversationEntity{id: conversationID}, &flowEntity{kind: kind})
	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish flow event",
			"event", eventType,
			"conversation_id", conversationID,
			"error", err,
		)
	}
}
