package relay

import (
	"context"
	"log/slog"

	"github.com/HMasataka/rally/payload/match"
)

type CreateHandler struct {
	registry *Registry
}

func NewCreateHandler(registry *Registry) *CreateHandler {
	return &CreateHandler{
		registry: registry,
	}
}

func (h *CreateHandler) Handle(ctx context.Context, from Peer, msg *match.Message) (*match.Message, error) {
	m, err := h.registry.Create(from)
	if err != nil {
		return nil, err
	}

	slog.Info("match created",
		slog.String("code", m.Code),
		slog.String("connection_id", from.ID()),
	)

	return match.NewCreatedMessage(m.Code)
}

func (h *CreateHandler) CanHandle(messageType match.MessageType) bool {
	return messageType == match.MessageTypeCreate
}
