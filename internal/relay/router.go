package relay

import (
	"context"

	"github.com/HMasataka/rally/payload/match"
)

type Router struct {
	handlerRegistry HandlerRegistry
}

func NewRouter() *Router {
	return &Router{
		handlerRegistry: NewHandlerRegistry(),
	}
}

func (r *Router) Register(messageType match.MessageType, handler Handler) {
	r.handlerRegistry.Register(messageType, handler)
}

func (r *Router) Handle(ctx context.Context, from Peer, msg *match.Message) (*match.Message, error) {
	return r.handlerRegistry.Handle(ctx, from, msg)
}

// NewRelayRouter wires the matchmaking handlers against one registry.
func NewRelayRouter(registry *Registry) *Router {
	router := NewRouter()

	router.Register(match.MessageTypeCreate, NewCreateHandler(registry))
	router.Register(match.MessageTypeJoin, NewJoinHandler(registry))
	router.Register(match.MessageTypeSignal, NewSignalHandler(registry))

	return router
}
