package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/HMasataka/rally/payload/match"
)

// SignalHandler forwards opaque negotiation payloads between the two
// peers of a match. The payload is never inspected and never buffered:
// if the target is not connected, the sender gets an error instead.
type SignalHandler struct {
	registry *Registry
}

func NewSignalHandler(registry *Registry) *SignalHandler {
	return &SignalHandler{
		registry: registry,
	}
}

func (h *SignalHandler) Handle(ctx context.Context, from Peer, msg *match.Message) (*match.Message, error) {
	var req match.SignalRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedRequest, err.Error())
	}
	if req.Code == "" || !req.From.Valid() || !req.To.Valid() {
		return nil, fmt.Errorf("%w: code, from and to are required", ErrMalformedRequest)
	}

	target, err := h.registry.Resolve(req.Code, req.To)
	if err != nil {
		return nil, err
	}

	event, err := match.NewSignalEventMessage(req.From, req.To, req.Signal)
	if err != nil {
		return nil, err
	}

	if err := target.Send(ctx, event); err != nil {
		slog.Warn("failed to relay signal",
			slog.String("code", req.Code),
			slog.String("to", string(req.To)),
			slog.String("error", err.Error()),
		)
		return nil, ErrTargetUnavailable
	}

	// Fire-and-forget: the sender gets no acknowledgment on success.
	return nil, nil
}

func (h *SignalHandler) CanHandle(messageType match.MessageType) bool {
	return messageType == match.MessageTypeSignal
}
