package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nijaru/yt-summary/captions"
	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/conversation"
	"github.com/nijaru/yt-summary/handlers/api"
	"github.com/nijaru/yt-summary/llm"
	"github.com/nijaru/yt-summary/logger"
	"github.com/nijaru/yt-summary/services/answer"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, closer, err := logger.New(logger.Options{
		Dir:   cfg.LogDir,
		Level: cfg.LogLevel,
		Debug: cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closer.Close()

	// Caption provider
	ytdlp := captions.NewYtDlp(captions.YtDlpConfig{
		Path:     cfg.Captions.YtDlpPath,
		Timeout:  cfg.Captions.Timeout,
		Language: cfg.Captions.Language,
		MaxBytes: cfg.Captions.MaxBytes,
	}, nil, appLogger)
	if err := ytdlp.Available(); err != nil {
		appLogger.WithError(err).Error("Caption provider unavailable, /summarize will fail")
	}
	fetcher := captions.NewFetcher(ytdlp, captions.Options{
		Language:     cfg.Captions.Language,
		AutoFallback: cfg.Captions.AutoFallback,
	}, appLogger)

	// Language model. A missing key leaves the services running without a
	// client so every request reports the configuration problem.
	var model llm.Client
	mistral, err := llm.NewMistralClient(llm.MistralConfig{
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		BaseURL:           cfg.LLM.BaseURL,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
		Burst:             cfg.LLM.Burst,
	}, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("Failed to create Mistral client")
	} else {
		model = mistral
		appLogger.WithField("model", mistral.Model()).Info("Mistral client initialized")
	}

	summaryService := summary.NewService(fetcher, model, appLogger)
	answerService := answer.NewService(conversation.NewGate(cfg.MaxPrompts), model, appLogger)

	server := api.NewServer(cfg,
		api.WithLogger(appLogger),
		api.WithServices(summaryService, answerService),
	)

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	idle := make(chan struct{})

	go func() {
		defer close(idle)
		sig := <-shutdownChan
		appLogger.WithField("signal", sig.String()).Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			appLogger.WithError(err).Error("Server shutdown error")
		}
	}()

	appLogger.WithFields(logrus.Fields{
		"version": cfg.Version,
		"debug":   cfg.Debug,
	}).Info("yt-summary starting")

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		appLogger.WithError(err).Fatal("Server error")
	}

	<-idle
}
