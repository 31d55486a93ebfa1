package dicesession

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-dicebot/internal/redis"
)

const (
	// Key pattern: dice_session:{conversation_id}:{context}
	sessionKeyPrefix = "dice_session:"
	defaultTTL       = 15 * time.Minute
	defaultMaxRolls  = 50

	// Optimistic locking retries for Append
	maxAppendAttempts = 5

	// Error messages
	errConversationIDEmpty = "conversation ID cannot be empty"
	errContextEmpty        = "context cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for dice sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new dice session with the specified TTL
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateKey(input.ConversationID, input.Context); err != nil {
		return nil, err
	}

	now := r.clock.Now()
	ttl := input.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	session := &DiceSession{
		ConversationID: input.ConversationID,
		Context:        input.Context,
		Rolls:          input.Rolls,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	key := r.buildKey(input.ConversationID, input.Context)
	if err := r.client.Set(ctx, key, sessionJSON, ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store session in Redis")
	}

	return &CreateOutput{
		Session: session,
	}, nil
}

// Get retrieves a dice session by conversation ID and context
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.ConversationID, input.Context); err != nil {
		return nil, err
	}

	key := r.buildKey(input.ConversationID, input.Context)
	session, err := r.load(ctx, r.client, key)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.NotFound("dice session not found")
	}

	// Check if session has expired
	if r.clock.Now().After(session.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFound("dice session has expired")
	}

	return &GetOutput{
		Session: session,
	}, nil
}

// Append adds a roll inside a WATCH transaction so concurrent appends are not lost
func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
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

	key := r.buildKey(input.ConversationID, input.Context)

	var session *DiceSession
	txf := func(tx *redis.Tx) error {
		now := r.clock.Now()

		current, err := r.load(ctx, tx, key)
		if err != nil {
			return err
		}
		if current == nil || now.After(current.ExpiresAt) {
			current = &DiceSession{
				ConversationID: input.ConversationID,
				Context:        input.Context,
				CreatedAt:      now,
			}
		}

		current.Rolls = append(current.Rolls, input.Roll)
		if len(current.Rolls) > maxRolls {
			current.Rolls = current.Rolls[len(current.Rolls)-maxRolls:]
		}
		current.ExpiresAt = now.Add(ttl)

		sessionJSON, err := json.Marshal(current)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal session")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, ttl)
			return nil
		})
		if err != nil {
			return err
		}

		session = current
		return nil
	}

	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return &AppendOutput{Session: session}, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, errors.Wrapf(err, "failed to append roll to session")
	}

	return nil, errors.Aborted("dice session changed concurrently, append abandoned")
}

// Delete removes a dice session
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.ConversationID, input.Context); err != nil {
		return nil, err
	}

	key := r.buildKey(input.ConversationID, input.Context)

	// Get the session first to count rolls
	getOutput, err := r.Get(ctx, GetInput(input))

	var rollsDeleted int32
	if err == nil && getOutput.Session != nil {
		// nolint:gosec // roll count is capped
		rollsDeleted = int32(len(getOutput.Session.Rolls))
	}

	result := r.client.Del(ctx, key)
	if result.Err() != nil {
		return nil, errors.Wrapf(result.Err(), "failed to delete session from Redis")
	}

	return &DeleteOutput{
		RollsDeleted: rollsDeleted,
	}, nil
}

// load returns nil without error when the key does not exist
func (r *redisRepository) load(ctx context.Context, cmd redis.Cmdable, key string) (*DiceSession, error) {
	sessionJSON, err := cmd.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	var session DiceSession
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}
	return &session, nil
}

// buildKey creates the Redis key for a dice session
func (r *redisRepository) buildKey(conversationID, context string) string {
	return fmt.Sprintf("%s%s:%s", sessionKeyPrefix, conversationID, context)
}

func validateKey(conversationID, context string) error {
	if conversationID == "" {
		return errors.InvalidArgument(errConversationIDEmpty)
	}
	if context == "" {
		return errors.InvalidArgument(errContextEmpty)
	}
	return nil
}
