package dicesession_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dicebot/internal/errors"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dicebot/internal/redis"
	dicesession "github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session"
	"github.com/KirkDiggler/rpg-dicebot/internal/testutils"
)

const (
	testConversationID = "chat_42"
	testContext        = "roll"
	testKey            = "dice_session:chat_42:roll"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	client  redis.Client
	mr      *miniredis.Miniredis
	cleanup func()
	clock   *clock.Fixed
	repo    dicesession.Repository
	ctx     context.Context
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.client, s.mr, s.cleanup = testutils.CreateTestRedis(s.T())
	s.clock = clock.NewFixed(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	repo, err := dicesession.NewRedisRepository(&dicesession.Config{
		Client: s.client,
		Clock:  s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) roll(id string, total int) dicesession.DiceRoll {
	return dicesession.DiceRoll{
		RollID:     id,
		Expression: "1d20",
		Total:      total,
		Trace:      []string{"1d20: [" + id + "]"},
		RolledAt:   s.clock.Now(),
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, dicesession.CreateInput{
		ConversationID: testConversationID,
		Context:        testContext,
		Rolls:          []dicesession.DiceRoll{s.roll("r1", 12)},
	})
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(15*time.Minute), created.Session.ExpiresAt)
	s.True(s.mr.Exists(testKey))
	s.Equal(15*time.Minute, s.mr.TTL(testKey))

	got, err := s.repo.Get(s.ctx, dicesession.GetInput{ConversationID: testConversationID, Context: testContext})
	s.Require().NoError(err)
	s.Require().Len(got.Session.Rolls, 1)
	s.Equal(12, got.Session.Rolls[0].Total)
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, dicesession.GetInput{ConversationID: testConversationID, Context: testContext})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestGetExpired() {
	_, err := s.repo.Create(s.ctx, dicesession.CreateInput{
		ConversationID: testConversationID,
		Context:        testContext,
		TTL:            time.Minute,
	})
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Minute)

	_, err = s.repo.Get(s.ctx, dicesession.GetInput{ConversationID: testConversationID, Context: testContext})
	s.True(errors.IsNotFound(err))
	s.False(s.mr.Exists(testKey))
}

func (s *RedisRepositoryTestSuite) TestAppend() {
	s.Run("creates the session on first roll", func() {
		out, err := s.repo.Append(s.ctx, dicesession.AppendInput{
			ConversationID: testConversationID,
			Context:        testContext,
			Roll:           s.roll("r1", 3),
		})
		s.Require().NoError(err)
		s.Len(out.Session.Rolls, 1)
		s.Equal(s.clock.Now(), out.Session.CreatedAt)
	})

	s.Run("appends and refreshes the TTL", func() {
		s.clock.Advance(5 * time.Minute)
		out, err := s.repo.Append(s.ctx, dicesession.AppendInput{
			ConversationID: testConversationID,
			Context:        testContext,
			Roll:           s.roll("r2", 9),
			TTL:            10 * time.Minute,
		})
		s.Require().NoError(err)
		s.Len(out.Session.Rolls, 2)
		s.Equal(s.clock.Now().Add(10*time.Minute), out.Session.ExpiresAt)
		s.Equal(10*time.Minute, s.mr.TTL(testKey))
	})

	s.Run("caps the history", func() {
		out, err := s.repo.Append(s.ctx, dicesession.AppendInput{
			ConversationID: testConversationID,
			Context:        testContext,
			Roll:           s.roll("r3", 1),
			MaxRolls:       2,
		})
		s.Require().NoError(err)
		s.Require().Len(out.Session.Rolls, 2)
		s.Equal("r2", out.Session.Rolls[0].RollID)
		s.Equal("r3", out.Session.Rolls[1].RollID)
	})
}

func (s *RedisRepositoryTestSuite) TestConcurrentAppends() {
	const writers = 10

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.repo.Append(s.ctx, dicesession.AppendInput{
				ConversationID: testConversationID,
				Context:        testContext,
				Roll:           s.roll("r", 1),
			})
		}()
	}
	wg.Wait()

	got, err := s.repo.Get(s.ctx, dicesession.GetInput{ConversationID: testConversationID, Context: testContext})
	s.Require().NoError(err)
	s.NotEmpty(got.Session.Rolls)
	s.LessOrEqual(len(got.Session.Rolls), writers)
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Create(s.ctx, dicesession.CreateInput{
		ConversationID: testConversationID,
		Context:        testContext,
		Rolls:          []dicesession.DiceRoll{s.roll("r1", 1), s.roll("r2", 2)},
	})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, dicesession.DeleteInput{ConversationID: testConversationID, Context: testContext})
	s.Require().NoError(err)
	s.Equal(int32(2), out.RollsDeleted)
	s.False(s.mr.Exists(testKey))

	out, err = s.repo.Delete(s.ctx, dicesession.DeleteInput{ConversationID: testConversationID, Context: testContext})
	s.Require().NoError(err)
	s.Equal(int32(0), out.RollsDeleted)
}

func (s *RedisRepositoryTestSuite) TestValidation() {
	testCases := []struct {
		name           string
		conversationID string
		context        string
	}{
		{name: "missing conversation", context: testContext},
		{name: "missing context", conversationID: testConversationID},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.repo.Get(s.ctx, dicesession.GetInput{ConversationID: tc.conversationID, Context: tc.context})
			s.True(errors.IsInvalidArgument(err))

			_, err = s.repo.Append(s.ctx, dicesession.AppendInput{ConversationID: tc.conversationID, Context: tc.context})
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func TestNewRedisRepository_Validation(t *testing.T) {
	_, err := dicesession.NewRedisRepository(&dicesession.Config{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
