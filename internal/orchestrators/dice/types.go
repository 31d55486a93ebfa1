package dice

import (
	"time"

	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	dicesession "github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session"
)

// RollDiceInput defines the request for rolling an expression
type RollDiceInput struct {
	ConversationID string
	// Context groups the history, ContextRoll when empty
	Context    string
	Expression string
	TTL        time.Duration
	// SkipBonus leaves any carry-over bonus for the next table resolution
	SkipBonus bool
}

// RollDiceOutput defines the response for rolling an expression
type RollDiceOutput struct {
	Roll    *dicesession.DiceRoll
	Result  *expression.Result
	Session *dicesession.DiceSession
}

// GetRollSessionInput defines the request for getting a roll session
type GetRollSessionInput struct {
	ConversationID string
	Context        string
}

// GetRollSessionOutput defines the response for getting a roll session
type GetRollSessionOutput struct {
	Session *dicesession.DiceSession
}

// ClearRollSessionInput defines the request for clearing a roll session
type ClearRollSessionInput struct {
	ConversationID string
	Context        string
}

// ClearRollSessionOutput defines the response for clearing a roll session
type ClearRollSessionOutput struct {
	RollsDeleted int32
}
