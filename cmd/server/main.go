package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"claimsight"
)

func main() {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	app, err := claimsight.New(cfg)
	if err != nil {
		slog.Error("starting claimsight", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	h := newHandler(app, cfg.MaxUploadBytes)
	mux := newMux(h)

	corsOrigins := os.Getenv("CLAIMSIGHT_CORS_ORIGINS")

	// Middleware chain: recovery -> cors -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = corsMiddleware(corsOrigins, handler)
	handler = recoveryMiddleware(handler)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// loadConfig resolves configuration from, highest priority first:
// CLAIMSIGHT_* environment variables, claimsight.yaml (working directory or
// ~/.claimsight), then built-in defaults.
func loadConfig() (claimsight.Config, error) {
	defaults := claimsight.DefaultConfig()

	v := viper.New()
	v.SetConfigName("claimsight")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.claimsight")
	}

	v.SetEnvPrefix("CLAIMSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("knowledge_base", defaults.KnowledgeBase)
	v.SetDefault("graph_data", defaults.GraphData)
	v.SetDefault("confidence_threshold", defaults.ConfidenceThreshold)
	v.SetDefault("max_upload_bytes", defaults.MaxUploadBytes)
	v.SetDefault("embedding_dim", defaults.EmbeddingDim)
	v.SetDefault("embedding.provider", "")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.api_key", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return claimsight.Config{}, err
		}
		// No config file is fine: defaults + env.
	} else {
		slog.Info("config loaded", "file", v.ConfigFileUsed())
	}

	// Well-known fallback for the embedding key.
	if v.GetString("embedding.provider") == "openai" && v.GetString("embedding.api_key") == "" {
		v.Set("embedding.api_key", os.Getenv("OPENAI_API_KEY"))
	}

	var cfg claimsight.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return claimsight.Config{}, err
	}
	return cfg, nil
}
