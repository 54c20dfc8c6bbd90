package match

import (
	"encoding/json"
	"time"

	"github.com/rs/xid"
)

type MessageType string

const (
	MessageTypeCreate           MessageType = "create"
	MessageTypeCreated          MessageType = "created"
	MessageTypeJoin             MessageType = "join"
	MessageTypeJoined           MessageType = "joined"
	MessageTypePeerJoined       MessageType = "peerJoined"
	MessageTypeSignal           MessageType = "signal"
	MessageTypePeerDisconnected MessageType = "peerDisconnected"
	MessageTypeError            MessageType = "error"
)

// Roleはマッチ内での参加者の役割を表す。
// セッション確立の試行中に再割り当てされることはない。
type Role string

const (
	RoleInitiator Role = "initiator"
	RoleJoiner    Role = "joiner"
)

func (r Role) Valid() bool {
	return r == RoleInitiator || r == RoleJoiner
}

// Opposite returns the other side of the match.
func (r Role) Opposite() Role {
	if r == RoleInitiator {
		return RoleJoiner
	}
	return RoleInitiator
}

// Message is the envelope for every control-plane frame.
// Data holds the type-specific payload.
type Message struct {
	ID        string          `json:"id,omitempty"`
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type CreatedResponse struct {
	Code string `json:"code"`
}

type JoinRequest struct {
	Code string `json:"code"`
}

type JoinedResponse struct {
	Code string `json:"code"`
}

// SignalRequest is a client-to-server relay request. Signal is opaque to
// the server and forwarded verbatim.
type SignalRequest struct {
	Code   string          `json:"code"`
	From   Role            `json:"from"`
	To     Role            `json:"to"`
	Signal json.RawMessage `json:"signal"`
}

// SignalEvent is the server-to-client delivery of a relayed payload.
type SignalEvent struct {
	From   Role            `json:"from"`
	To     Role            `json:"to"`
	Signal json.RawMessage `json:"signal"`
}

type ErrorCode string

const (
	ErrorCodeMatchNotFound     ErrorCode = "match_not_found"
	ErrorCodeMatchFull         ErrorCode = "match_full"
	ErrorCodeSelfJoin          ErrorCode = "self_join"
	ErrorCodeTargetUnavailable ErrorCode = "target_unavailable"
	ErrorCodeMalformedRequest  ErrorCode = "malformed_request"
	ErrorCodeInternal          ErrorCode = "internal"
)

type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewMessage(messageType MessageType, data any) (*Message, error) {
	msg := &Message{
		ID:        xid.New().String(),
		Type:      messageType,
		Timestamp: time.Now(),
	}

	if data == nil {
		return msg, nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	msg.Data = b

	return msg, nil
}

func NewCreateMessage() (*Message, error) {
	return NewMessage(MessageTypeCreate, nil)
}

func NewCreatedMessage(code string) (*Message, error) {
	return NewMessage(MessageTypeCreated, CreatedResponse{Code: code})
}

func NewJoinMessage(code string) (*Message, error) {
	return NewMessage(MessageTypeJoin, JoinRequest{Code: code})
}

func NewJoinedMessage(code string) (*Message, error) {
	return NewMessage(MessageTypeJoined, JoinedResponse{Code: code})
}

func NewPeerJoinedMessage() (*Message, error) {
	return NewMessage(MessageTypePeerJoined, nil)
}

func NewSignalRequestMessage(code string, from, to Role, signal json.RawMessage) (*Message, error) {
	return NewMessage(MessageTypeSignal, SignalRequest{
		Code:   code,
		From:   from,
		To:     to,
		Signal: signal,
	})
}

func NewSignalEventMessage(from, to Role, signal json.RawMessage) (*Message, error) {
	return NewMessage(MessageTypeSignal, SignalEvent{
		From:   from,
		To:     to,
		Signal: signal,
	})
}

func NewPeerDisconnectedMessage() (*Message, error) {
	return NewMessage(MessageTypePeerDisconnected, nil)
}

func NewErrorMessage(code ErrorCode, message string) (*Message, error) {
	return NewMessage(MessageTypeError, ErrorResponse{Code: code, Message: message})
}
