package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dicebot/internal/config"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/expression"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/random"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/tables"
	"github.com/KirkDiggler/rpg-dicebot/internal/engine/transition"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/conversation"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/table"
	"github.com/KirkDiggler/rpg-dicebot/internal/orchestrators/travel"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dicebot/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-dicebot/internal/redis"
	conversationrepo "github.com/KirkDiggler/rpg-dicebot/internal/repositories/conversation"
	dicesession "github.com/KirkDiggler/rpg-dicebot/internal/repositories/dice_session"
	tablesource "github.com/KirkDiggler/rpg-dicebot/internal/repositories/table_source"
)

// app holds every wired service of one process
type app struct {
	eventBus     events.EventBus
	dice         dice.Service
	table        table.Service
	travel       travel.Service
	conversation conversation.Service

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{eventBus: events.NewBus()}
	clk := clock.New()

	roller := random.New(cfg.RNGSeed)
	evaluator, err := expression.NewEvaluator(&expression.Config{
		Roller: roller,
		Limits: cfg.DiceLimits(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	resolver, err := tables.NewResolver(&tables.ResolverConfig{
		Roller:    roller,
		Evaluator: evaluator,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	settings, err := transition.LoadSettings(cfg.TransitionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load transition settings: %w", err)
	}
	sampler, err := transition.NewSampler(&transition.Config{
		Roller:   roller,
		Settings: settings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	conversations, sessions, err := a.stores(cfg, clk)
	if err != nil {
		a.Close()
		return nil, err
	}

	sources, err := a.sources(ctx, cfg, clk)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.dice, err = dice.NewOrchestrator(&dice.Config{
		DiceSessionRepo:  sessions,
		ConversationRepo: conversations,
		Evaluator:        evaluator,
		IDGenerator:      idgen.NewUUID("roll_"),
		Clock:            clk,
		HistoryTTL:       cfg.HistoryTTL,
		MaxHistory:       cfg.MaxHistory,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create dice orchestrator: %w", err)
	}

	a.table, err = table.NewOrchestrator(&table.Config{
		SourceRepo:       sources,
		ConversationRepo: conversations,
		Resolver:         resolver,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create table orchestrator: %w", err)
	}

	a.travel, err = travel.NewOrchestrator(&travel.Config{
		Sampler:          sampler,
		Settings:         settings,
		ConversationRepo: conversations,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create travel orchestrator: %w", err)
	}

	a.conversation, err = conversation.NewOrchestrator(&conversation.Config{
		ConversationRepo: conversations,
		DiceService:      a.dice,
		TableService:     a.table,
		TravelService:    a.travel,
		EventBus:         a.eventBus,
		Clock:            clk,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create conversation orchestrator: %w", err)
	}

	return a, nil
}

func (a *app) stores(cfg *config.Config, clk clock.Clock) (conversationrepo.Repository, dicesession.Repository, error) {
	if cfg.SessionStore != config.SessionStoreRedis {
		slog.Info("Using in-memory session store")
		return conversationrepo.NewInMemory(clk, cfg.SessionTTL), dicesession.NewInMemory(clk), nil
	}

	client, err := redisclient.Connect(redisclient.Endpoint{
		Addrs:      cfg.RedisAddrs,
		MasterName: cfg.RedisMasterName,
	}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	a.closers = append(a.closers, client.Close)

	conversations, err := conversationrepo.NewRedis(&conversationrepo.RedisConfig{
		Client:  client,
		Clock:   clk,
		FlowTTL: cfg.SessionTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create conversation repository: %w", err)
	}

	sessions, err := dicesession.NewRedisRepository(&dicesession.Config{
		Client: client,
		Clock:  clk,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dice session repository: %w", err)
	}

	slog.Info("Using redis session store", "addrs", cfg.RedisAddrs, "master_name", cfg.RedisMasterName)
	return conversations, sessions, nil
}

func (a *app) sources(ctx context.Context, cfg *config.Config, clk clock.Clock) (tablesource.Repository, error) {
	var repos []tablesource.Repository

	if cfg.TablesDir != "" {
		dir, err := tablesource.NewDir(os.DirFS(cfg.TablesDir))
		if err != nil {
			return nil, fmt.Errorf("failed to open tables dir: %w", err)
		}
		repos = append(repos, dir)
	}

	if cfg.TablesDB != "" {
		store, err := tablesource.OpenSQLite(ctx, &tablesource.SQLiteConfig{Path: cfg.TablesDB, Clock: clk})
		if err != nil {
			return nil, fmt.Errorf("failed to open tables db: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		repos = append(repos, store)
	}

	if len(repos) == 0 {
		slog.Warn("No table sources configured, set TABLES_DIR or TABLES_DB")
	}
	return tablesource.NewMulti(repos...), nil
}

// Close releases connections in reverse order of creation
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}

// subscribeAudit logs every flow lifecycle event
func subscribeAudit(bus events.EventBus) {
	for _, eventType := range []string{
		conversation.EventFlowStarted,
		conversation.EventFlowResolved,
		conversation.EventFlowCancelled,
	} {
		bus.SubscribeFunc(eventType, 100, func(_ context.Context, e events.Event) error {
			slog.Info("Flow event",
				"event", e.Type(),
				"conversation_id", e.Source().GetID(),
				"flow", e.Target().GetID(),
			)
			return nil
		})
	}
}
