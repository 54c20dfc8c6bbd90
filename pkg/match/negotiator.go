package match

import (
	"github.com/pion/webrtc/v4"
)

// Negotiatorはローカルのピア接続ネゴシエーションを抽象化したインターフェースです。
// クライアントはこのインターフェース越しにoffer/answer/candidateを適用し、
// データチャネルが開くまでハンドシェイクを進めます。
//
//go:generate mockgen -source negotiator.go -destination mock/negotiator.go
type Negotiator interface {
	CreateDataChannel(label string) (DataChannel, error)
	CreateOffer() (webrtc.SessionDescription, error)
	// CreateAnswer applies the remote offer and produces the local answer.
	CreateAnswer(offer webrtc.SessionDescription) (webrtc.SessionDescription, error)
	SetRemoteDescription(sdp webrtc.SessionDescription) error
	AddICECandidate(candidate webrtc.ICECandidateInit) error
	OnICECandidate(f func(webrtc.ICECandidateInit))
	OnDataChannel(f func(DataChannel))
	OnConnectionStateChange(f func(webrtc.PeerConnectionState))
	Close() error
}

// DataChannel is the bidirectional game channel handed to the caller
// once the handshake completes.
type DataChannel interface {
	Label() string
	Send(data []byte) error
	SendText(text string) error
	OnOpen(f func())
	OnMessage(f func([]byte))
	OnClose(f func())
	Close() error
}

// NegotiatorFactory builds one Negotiator per session attempt.
type NegotiatorFactory func() (Negotiator, error)
