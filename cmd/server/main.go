package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HMasataka/rally/internal/relay"
	toml "github.com/pelletier/go-toml/v2"
)

func defaultAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return relay.DefaultConfig().Addr
}

func loadConfig(path string) (relay.Config, error) {
	config := relay.DefaultConfig()

	if path == "" {
		return config, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(b, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	addr := flag.String("addr", defaultAddr(), "listen address")
	configPath := flag.String("config", "", "path to TOML config file")
	heartbeat := flag.Int("heartbeat", 0, "heartbeat interval in seconds (overrides config)")
	flag.Parse()

	config, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *addr != "" {
		config.Addr = *addr
	}
	if *heartbeat > 0 {
		config.Heartbeat.IntervalSeconds = *heartbeat
		if config.Heartbeat.PongWaitSeconds <= *heartbeat {
			config.Heartbeat.PongWaitSeconds = *heartbeat + 5
		}
	}

	s := relay.NewServer(config)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              config.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("relay server starting", slog.String("addr", config.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	case <-sigCh:
	}

	slog.Info("shutting down server...")
	server.Close()
}
