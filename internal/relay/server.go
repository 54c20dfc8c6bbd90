package relay

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/HMasataka/rally/payload/match"
	ws "github.com/gorilla/websocket"
)

type Config struct {
	Addr      string          `toml:"addr"`
	Match     MatchConfig     `toml:"match"`
	Heartbeat HeartbeatConfig `toml:"heartbeat"`
	Limits    LimitsConfig    `toml:"limits"`
}

type MatchConfig struct {
	CodeLength      int `toml:"code_length"`
	MaxCodeAttempts int `toml:"max_code_attempts"`
}

type HeartbeatConfig struct {
	// IntervalSeconds is the ping cadence; PongWaitSeconds is how long a
	// peer may stay silent before it is treated as disconnected. A silent
	// peer must be dropped within one probe cycle, so the pong wait is one
	// interval plus write slack, not a multiple of it.
	IntervalSeconds int `toml:"interval"`
	PongWaitSeconds int `toml:"pong_wait"`
}

type LimitsConfig struct {
	MaxMessageSize int64 `toml:"max_message_size"`
	SendBufferSize int   `toml:"send_buffer_size"`
}

func DefaultConfig() Config {
	return Config{
		Addr: ":8080",
		Match: MatchConfig{
			CodeLength:      DefaultCodeLength,
			MaxCodeAttempts: DefaultRegistryOptions().MaxCodeAttempts,
		},
		Heartbeat: HeartbeatConfig{
			IntervalSeconds: 15,
			PongWaitSeconds: 20,
		},
		Limits: LimitsConfig{
			MaxMessageSize: 64 * 1024,
			SendBufferSize: 64,
		},
	}
}

// Server brokers match creation, joining and signal relay over one
// WebSocket endpoint. It owns the registry; per-connection handlers only
// reach the table through it.
type Server struct {
	config   Config
	registry *Registry
	upgrader ws.Upgrader
}

func NewServer(config Config) *Server {
	return &Server{
		config: config,
		registry: NewRegistry(RegistryOptions{
			CodeLength:      config.Match.CodeLength,
			MaxCodeAttempts: config.Match.MaxCodeAttempts,
		}),
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Registry exposes the match table for observability and tests.
func (s *Server) Registry() *Registry {
	return s.registry
}

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err.Error())
		return
	}

	ctx := r.Context()

	sender := NewWebSocketSender(ctx, conn, SenderOptions{
		WriteTimeout:      DefaultSenderOptions().WriteTimeout,
		HeartbeatInterval: time.Duration(s.config.Heartbeat.IntervalSeconds) * time.Second,
		BufferSize:        s.config.Limits.SendBufferSize,
	})

	router := NewRelayRouter(s.registry)

	connection := NewConnection(ctx, conn, sender, router, ConnectionOptions{
		PongWait:       time.Duration(s.config.Heartbeat.PongWaitSeconds) * time.Second,
		MaxMessageSize: s.config.Limits.MaxMessageSize,
	})
	connection.OnClose(s.dropPeer)

	slog.Info("connection established", slog.String("connection_id", connection.ID()))

	connection.Start(ctx)

	slog.Info("connection closed", slog.String("connection_id", connection.ID()))
}

// dropPeer is the single teardown routine. Explicit closes and heartbeat
// expiries both end the read loop and land here, so peerDisconnected is
// delivered at most once per counterpart.
func (s *Server) dropPeer(c *Connection) {
	counterparts := s.registry.DropPeer(c)
	if len(counterparts) == 0 {
		return
	}

	for _, peer := range counterparts {
		msg, err := match.NewPeerDisconnectedMessage()
		if err != nil {
			continue
		}

		if err := peer.Send(context.Background(), msg); err != nil {
			slog.Debug("failed to notify counterpart",
				slog.String("connection_id", peer.ID()),
				slog.String("error", err.Error()),
			)
		}
	}

	slog.Info("matches dropped",
		slog.String("connection_id", c.ID()),
		slog.Int("notified", len(counterparts)),
	)
}
