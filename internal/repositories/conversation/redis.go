package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-dicebot/internal/entities"
	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-dicebot/internal/redis"
)

const (
	// Key pattern: conversation:{id}:{field}
	keyPrefix       = "conversation:"
	fieldFlow       = "flow"
	fieldBonus      = "bonus"
	fieldCurrent    = "current_category"
	defaultFlowTTL  = 30 * time.Minute
	defaultCarryTTL = 7 * 24 * time.Hour
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	// FlowTTL bounds how long an abandoned flow is kept
	FlowTTL time.Duration
	// CarryTTL bounds how long a bonus or travel category is kept
	CarryTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type redisRepository struct {
	client   redisclient.Client
	clock    clock.Clock
	flowTTL  time.Duration
	carryTTL time.Duration
}

// NewRedis creates a Redis backed conversation repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	r := &redisRepository{
		client:   cfg.Client,
		clock:    cfg.Clock,
		flowTTL:  cfg.FlowTTL,
		carryTTL: cfg.CarryTTL,
	}
	if r.flowTTL == 0 {
		r.flowTTL = defaultFlowTTL
	}
	if r.carryTTL == 0 {
		r.carryTTL = defaultCarryTTL
	}

	return r, nil
}

var _ Repository = (*redisRepository)(nil)

// Get retrieves the active flow
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	data, err := r.client.Get(ctx, buildKey(input.ConversationID, fieldFlow)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no active flow for conversation %s", input.ConversationID)
		}
		return nil, errors.Wrap(err, "failed to get conversation from Redis")
	}

	var conv entities.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal conversation")
	}

	return &GetOutput{Conversation: &conv}, nil
}

// Save stores the flow and restarts its TTL
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.Conversation == nil {
		return nil, errors.InvalidArgument(errConversationRequired)
	}
	if input.Conversation.ID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	conv := *input.Conversation
	conv.UpdatedAt = r.clock.Now()
	if conv.StartedAt.IsZero() {
		conv.StartedAt = conv.UpdatedAt
	}

	data, err := json.Marshal(conv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal conversation")
	}

	if err := r.client.Set(ctx, buildKey(conv.ID, fieldFlow), data, r.flowTTL).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store conversation in Redis")
	}

	return &SaveOutput{}, nil
}

// Delete discards the active flow
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	n, err := r.client.Del(ctx, buildKey(input.ConversationID, fieldFlow)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete conversation from Redis")
	}

	return &DeleteOutput{Deleted: n > 0}, nil
}

// SetBonus stores the carry-over bonus
func (r *redisRepository) SetBonus(ctx context.Context, input *SetBonusInput) (*SetBonusOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	key := buildKey(input.ConversationID, fieldBonus)
	if err := r.client.Set(ctx, key, strconv.Itoa(input.Bonus), r.carryTTL).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store bonus in Redis")
	}

	return &SetBonusOutput{}, nil
}

// TakeBonus consumes the bonus with GETDEL so two resolutions can never both apply it
func (r *redisRepository) TakeBonus(ctx context.Context, input *TakeBonusInput) (*TakeBonusOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	raw, err := r.client.GetDel(ctx, buildKey(input.ConversationID, fieldBonus)).Result()
	if err != nil {
		if err == redis.Nil {
			return &TakeBonusOutput{}, nil
		}
		return nil, errors.Wrap(err, "failed to take bonus from Redis")
	}

	bonus, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.Internalf("stored bonus %q is not a number", raw)
	}

	return &TakeBonusOutput{Bonus: bonus, Found: true}, nil
}

// GetCurrentCategory reads the travel category
func (r *redisRepository) GetCurrentCategory(ctx context.Context, input *GetCurrentCategoryInput) (*GetCurrentCategoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}

	category, err := r.client.Get(ctx, buildKey(input.ConversationID, fieldCurrent)).Result()
	if err != nil {
		if err == redis.Nil {
			return &GetCurrentCategoryOutput{}, nil
		}
		return nil, errors.Wrap(err, "failed to get current category from Redis")
	}

	return &GetCurrentCategoryOutput{Category: category, Found: true}, nil
}

// SetCurrentCategory stores the travel category
func (r *redisRepository) SetCurrentCategory(ctx context.Context, input *SetCurrentCategoryInput) (*SetCurrentCategoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputRequired)
	}
	if input.ConversationID == "" {
		return nil, errors.InvalidArgument(errConversationIDRequired)
	}
	if input.Category == "" {
		return nil, errors.InvalidArgument("category is required")
	}

	key := buildKey(input.ConversationID, fieldCurrent)
	if err := r.client.Set(ctx, key, input.Category, r.carryTTL).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store current category in Redis")
	}

	return &SetCurrentCategoryOutput{}, nil
}

func buildKey(conversationID, field string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, conversationID, field)
}
