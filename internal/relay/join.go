package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/HMasataka/logging"
	"github.com/HMasataka/rally/payload/match"
)

type JoinHandler struct {
	registry *Registry
}

func NewJoinHandler(registry *Registry) *JoinHandler {
	return &JoinHandler{
		registry: registry,
	}
}

func (h *JoinHandler) Handle(ctx context.Context, from Peer, msg *match.Message) (*match.Message, error) {
	var req match.JoinRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedRequest, err.Error())
	}
	if req.Code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrMalformedRequest)
	}

	m, err := h.registry.Join(req.Code, from)
	if err != nil {
		return nil, err
	}

	// The joiner gets its reply through the router; the initiator learns
	// about the pairing here.
	notification, err := match.NewPeerJoinedMessage()
	if err != nil {
		return nil, err
	}

	if err := m.Initiator.Send(ctx, notification); err != nil {
		slog.Warn("failed to notify initiator",
			slog.String("code", m.Code),
			slog.String("error", err.Error()),
		)
	}

	if logging.HasLoggingContext(ctx) {
		slog.InfoContext(ctx, "match paired",
			slog.String("code", m.Code),
			slog.String("connection_id", from.ID()),
		)
	}

	return match.NewJoinedMessage(m.Code)
}

func (h *JoinHandler) CanHandle(messageType match.MessageType) bool {
	return messageType == match.MessageTypeJoin
}
