package dicesession

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
)

type sessionKey struct {
	conversationID string
	context        string
}

// InMemoryRepository implements Repository in process memory. History is lost on restart.
type InMemoryRepository struct {
	mu       sync.Mutex
	clock    clock.Clock
	sessions map[sessionKey]*DiceSession
}

// NewInMemory creates a new in-memory repository. A nil clock uses the real clock.
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock:    c,
		sessions: make(map[sessionKey]*DiceSession),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Create stores a new dice session, replacing any existing one
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateKey(input.ConversationID, input.Context); err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	session := &DiceSession{
		ConversationID: input.ConversationID,
		Context:        input.Context,
		Rolls:          append([]DiceRoll(nil), input.Rolls...),
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}
	r.sessions[sessionKey{input.ConversationID, input.Context}] = session

	return &CreateOutput{Session: copySession(session)}, nil
}

// Get retrieves a dice session
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.ConversationID, input.Context); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.live(sessionKey{input.ConversationID, input.Context})
	if session == nil {
		return nil, errors.NotFound("dice session not found")
	}
	return &GetOutput{Session: copySession(session)}, nil
}

// Append adds a roll, creating the session when needed, and refreshes its expiry
func (r *InMemoryRepository) Append(_ context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateKey(input.ConversationID, input.Context); err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	maxRolls := input.MaxRolls
	if maxRolls <= 0 {
		maxRolls = defaultMaxRolls
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey{input.ConversationID, input.Context}
	now := r.clock.Now()
	session := r.live(key)
	if session == nil {
		session = &DiceSession{
			ConversationID: input.ConversationID,
			Context:        input.Context,
			CreatedAt:      now,
		}
		r.sessions[key] = session
	}

	session.Rolls = append(session.Rolls, input.Roll)
	if len(session.Rolls) > maxRolls {
		session.Rolls = append([]DiceRoll(nil), session.Rolls[len(session.Rolls)-maxRolls:]...)
	}
	session.ExpiresAt = now.Add(ttl)

	return &AppendOutput{Session: copySession(session)}, nil
}

// Delete removes a dice session
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.ConversationID, input.Context); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := sessionKey{input.ConversationID, input.Context}
	var rollsDeleted int32
	if session := r.live(key); session != nil {
		// nolint:gosec // roll count is capped
		rollsDeleted = int32(len(session.Rolls))
	}
	delete(r.sessions, key)

	return &DeleteOutput{RollsDeleted: rollsDeleted}, nil
}

// live returns the unexpired session for key, dropping an expired one. Callers hold mu.
func (r *InMemoryRepository) live(key sessionKey) *DiceSession {
	session, ok := r.sessions[key]
	if !ok {
		return nil
	}
	if r.clock.Now().After(session.ExpiresAt) {
		delete(r.sessions, key)
		return nil
	}
	return session
}

func copySession(s *DiceSession) *DiceSession {
	out := *s
	out.Rolls = append([]DiceRoll(nil), s.Rolls...)
	return &out
}
