// ABOUTME: Wires storage, personalities, the model client, caches and sinks from config
// ABOUTME: Shared by the HTTP daemon, the MCP server and the CLI commands
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harper/plant-texts/internal/api"
	"github.com/harper/plant-texts/internal/care"
	"github.com/harper/plant-texts/internal/chat"
	"github.com/harper/plant-texts/internal/config"
	"github.com/harper/plant-texts/internal/evaluation"
	"github.com/harper/plant-texts/internal/history"
	"github.com/harper/plant-texts/internal/llm"
	"github.com/harper/plant-texts/internal/mcp"
	"github.com/harper/plant-texts/internal/metrics"
	"github.com/harper/plant-texts/internal/personality"
	"github.com/harper/plant-texts/internal/storage/sqlite"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InMemoryDB selects a throwaway in-memory database
const InMemoryDB = ":memory:"

// App holds every wired component
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Storage   *sqlite.Storage
	Resolver  *personality.Resolver
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Chat      *chat.Service
	Care      *care.Service
	Evaluator *evaluation.Logger

	redis *redis.Client
}

// NewLogger builds a production zap logger at the given level, writing to stderr
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// New wires the application. Optional backends (Redis, evaluation sinks) that
// cannot be reached are logged and skipped; only the database is required.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := openStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	table, err := loadPersonalities(cfg.PersonalityFile)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	resolver := personality.NewResolver(table)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Storage:  store,
		Resolver: resolver,
		Registry: reg,
		Metrics:  m,
	}

	chatSvc := &chat.Service{
		Plants:   store,
		Turns:    store,
		Resolver: resolver,
		Metrics:  m,
		Window:   cfg.HistoryWindow,
		Logger:   logger.Named("chat"),
	}

	var model chat.Completer
	if cfg.ModelEnabled() {
		client, err := llm.NewClient(&llm.ClientConfig{
			APIKey:      cfg.OpenAIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			ChatModel:   cfg.ChatModel,
			MaxAttempts: cfg.MaxAttempts,
			RetryDelay:  cfg.RetryDelay,
			Timeout:     cfg.Timeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: 0.9,
		}, logger.Named("llm"))
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("initializing model client: %w", err)
		}
		model = client
		chatSvc.Model = client.Model()
	} else {
		logger.Info("language model disabled, replies will use templates")
	}
	chatSvc.Generator = chat.NewGenerator(model, cfg.HistoryWindow, logger.Named("generator"))

	if cfg.RedisURL != "" {
		rdb, err := history.Dial(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("history cache unavailable, reading from database", zap.Error(err))
		} else {
			a.redis = rdb
			chatSvc.Cache = history.New(rdb, history.DefaultCapacity, history.DefaultTTL)
		}
	}

	sink := buildSink(cfg, logger)
	a.Evaluator = evaluation.NewLogger(sink, evaluation.Options{
		MaxInFlight: cfg.EvalMaxInFlight,
		Timeout:     cfg.EvalTimeout,
		Metrics:     m,
		Logger:      logger.Named("evaluation"),
	})
	chatSvc.Recorder = a.Evaluator

	a.Chat = chatSvc
	a.Care = &care.Service{
		Store:    store,
		Plants:   store,
		Planner:  care.NewPlanner(care.MustDefaultCatalog()),
		Resolver: resolver,
		Logger:   logger.Named("care"),
	}

	logger.Info("application initialized",
		zap.String("db", cfg.DBPath),
		zap.Bool("model", model != nil),
		zap.Bool("history_cache", chatSvc.Cache != nil),
		zap.String("evaluation_sink", sink.Name()))

	return a, nil
}

func openStorage(path string) (*sqlite.Storage, error) {
	if path == InMemoryDB {
		return sqlite.NewStorageInMemory()
	}
	return sqlite.NewStorageWithPath(path)
}

func loadPersonalities(path string) (*personality.Table, error) {
	if path == "" {
		return personality.DefaultTable()
	}
	table, err := personality.LoadTableFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading personalities from %s: %w", path, err)
	}
	return table, nil
}

func buildSink(cfg *config.Config, logger *zap.Logger) evaluation.Sink {
	var sinks evaluation.MultiSink
	if cfg.EvalURL != "" {
		sinks = append(sinks, evaluation.NewHTTPSink(cfg.EvalURL, cfg.EvalAPIKey, cfg.EvalProjectID,
			&http.Client{Timeout: cfg.EvalTimeout}))
	}
	if cfg.NATSURL != "" {
		ns, err := evaluation.NewNATSSink(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Warn("nats evaluation sink unavailable", zap.Error(err))
		} else {
			sinks = append(sinks, ns)
		}
	}

	switch len(sinks) {
	case 0:
		return evaluation.NopSink{}
	case 1:
		return sinks[0]
	}
	return sinks
}

// Handlers returns the HTTP handlers bound to this app
func (a *App) Handlers() *api.Handlers {
	return &api.Handlers{
		Store:    a.Storage,
		Chatter:  a.Chat,
		Care:     a.Care,
		Resolver: a.Resolver,
		Logger:   a.Logger,
	}
}

// Router builds the HTTP router with metrics exposed
func (a *App) Router() *gin.Engine {
	return api.NewRouter(a.Handlers(), a.Registry, a.Logger.Named("http"))
}

// RegisterMCP adds every plant tool to server
func (a *App) RegisterMCP(server *mcpserver.MCPServer) *mcp.Handlers {
	return mcp.RegisterTools(server, a.Chat, a.Care, a.Resolver, a.Logger.Named("mcp"))
}

// Close drains pending evaluation records and releases every backend
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Evaluator.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("closing evaluation logger: %w", err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing redis: %w", err))
		}
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing storage: %w", err))
	}
	return errors.Join(errs...)
}
