package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"linguachat/internal/adapter"
	"linguachat/internal/auth"
	"linguachat/internal/chat"
	"linguachat/internal/conversation"
	"linguachat/internal/graph"
	"linguachat/internal/metrics"
	"linguachat/internal/server"
	"linguachat/internal/speech"
	"linguachat/internal/store"
	"linguachat/pkg/config"
	"linguachat/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	users, err := store.NewUserStore(cfg.DataDir)
	if err != nil {
		log.Fatal("failed to open user store", zap.Error(err))
	}
	conversations, err := store.NewConversationStore(cfg.DataDir)
	if err != nil {
		log.Fatal("failed to open conversation store", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	llm := adapter.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, collector)
	synth := speech.NewSynthesizer(cfg.AzureSpeechKey, cfg.AzureSpeechRegion, collector)
	manager := conversation.NewManager(conversations, llm, collector)

	facts := buildGraphPipeline(cfg, llm, collector, log)

	// The orchestrator takes a nil-able fact sink; a typed-nil interface
	// would defeat its nil check, so pass nil explicitly.
	var sink chat.FactSink
	if facts != nil {
		sink = facts
	}
	orch := chat.NewOrchestrator(users, manager, llm, synth, sink, collector)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	srv := server.New(cfg, users, tokens, manager, orch, synth, facts, registry)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	go func() {
		log.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.Bool("speech", cfg.SpeechConfigured()),
			zap.Bool("graph", facts != nil),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// buildGraphPipeline connects to Neo4j when configured. Connection
// failure degrades to a nil pipeline rather than aborting startup.
func buildGraphPipeline(cfg *config.Config, llm *adapter.Client, collector *metrics.Collector, log *zap.Logger) *graph.Pipeline {
	if !cfg.GraphConfigured() {
		log.Info("graph store not configured, enrichment disabled")
		return nil
	}

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		log.Warn("graph driver setup failed, enrichment disabled", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Warn("graph store unreachable, enrichment disabled", zap.Error(err))
		_ = driver.Close(context.Background())
		return nil
	}

	log.Info("graph store connected", zap.String("uri", cfg.Neo4jURI))
	return graph.NewPipeline(graph.NewRepository(driver, collector), llm, collector)
}
