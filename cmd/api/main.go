// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hashchat-ai/ledger-assistant/internal/audit"
	"github.com/hashchat-ai/ledger-assistant/internal/config"
	"github.com/hashchat-ai/ledger-assistant/internal/gateway"
	"github.com/hashchat-ai/ledger-assistant/internal/handler"
	"github.com/hashchat-ai/ledger-assistant/internal/ledger"
	"github.com/hashchat-ai/ledger-assistant/internal/llm"
	"github.com/hashchat-ai/ledger-assistant/internal/loan"
	"github.com/hashchat-ai/ledger-assistant/internal/memory"
	"github.com/hashchat-ai/ledger-assistant/internal/middleware"
	"github.com/hashchat-ai/ledger-assistant/internal/router"
	"github.com/hashchat-ai/ledger-assistant/pkg/logger"
	"github.com/hashchat-ai/ledger-assistant/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting ledger assistant")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "ledger-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to the Hedera network. The operator identity is fixed for
	// the process lifetime.
	ledgerClient, err := ledger.NewHederaClient(ledger.Config{
		Network:     cfg.HederaNetwork,
		OperatorID:  cfg.OperatorID,
		OperatorKey: cfg.OperatorKey,
	})
	if err != nil {
		log.Error("failed to create hedera client", zap.Error(err))
		os.Exit(1)
	}
	defer ledgerClient.Close()

	log.Info("hedera client ready",
		zap.String("network", cfg.HederaNetwork),
		zap.String("operator", ledgerClient.OperatorID()),
	)

	// Optional NATS audit trail
	var auditPublisher *audit.Publisher
	if cfg.NATSURL != "" {
		natsClient, err := audit.Connect(ctx, audit.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer natsClient.Close()

		auditPublisher = audit.NewPublisher(natsClient, log)
		if err := auditPublisher.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure audit stream", zap.Error(err))
			os.Exit(1)
		}
	}

	// Initialize LLM client
	llmClient, err := llm.NewClient(llm.Provider(cfg.DefaultLLM), llmAPIKey(cfg))
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}

	// Optional loan collaborator
	var loanClient handler.LoanClient
	if cfg.LoanServiceURL != "" {
		lc, err := loan.NewClient(cfg.LoanServiceURL, cfg.LoanServiceTimeout)
		if err != nil {
			log.Error("failed to create loan client", zap.Error(err))
			os.Exit(1)
		}
		loanClient = lc
	}

	// Wire the core
	gw := gateway.New(ledgerClient, log,
		gateway.WithInitialBalance(cfg.InitialBalanceTinybar),
		gateway.WithAuditPublisher(auditPublisher),
	)
	mem := memory.NewStore(
		memory.WithMaxTurns(cfg.MemoryMaxTurns),
		memory.WithTTL(cfg.MemoryTTL),
	)
	intentRouter := router.New(llmClient, gw, mem, cfg.ChatModel, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(ledgerClient)
	chatHandler := handler.NewChatHandler(intentRouter, loanClient, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Conversation-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Use(middleware.ConversationID(cfg.DefaultConversationID))

		r.Post("/chat", chatHandler.Chat)
		r.Post("/chat/loan/{userId}", chatHandler.LoanChat)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func llmAPIKey(cfg *config.Config) string {
	if llm.Provider(cfg.DefaultLLM) == llm.ProviderAnthropic {
		return cfg.AnthropicAPIKey
	}
	return cfg.OpenAIAPIKey
}
