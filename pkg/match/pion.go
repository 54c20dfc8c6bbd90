package match

import (
	rallywebrtc "github.com/HMasataka/rally/pkg/webrtc"
	"github.com/pion/webrtc/v4"
)

// pionNegotiator adapts the pion-backed peer connection wrapper to the
// Negotiator interface.
type pionNegotiator struct {
	pc *rallywebrtc.PeerConnection
}

var _ Negotiator = (*pionNegotiator)(nil)

// NewPionNegotiator creates a Negotiator driving a real peer connection.
func NewPionNegotiator(options rallywebrtc.PeerConnectionOptions) (Negotiator, error) {
	pc, err := rallywebrtc.NewPeerConnection(options)
	if err != nil {
		return nil, err
	}

	return &pionNegotiator{pc: pc}, nil
}

// PionNegotiatorFactory returns a NegotiatorFactory over NewPionNegotiator.
func PionNegotiatorFactory(options rallywebrtc.PeerConnectionOptions) NegotiatorFactory {
	return func() (Negotiator, error) {
		return NewPionNegotiator(options)
	}
}

func (n *pionNegotiator) CreateDataChannel(label string) (DataChannel, error) {
	return n.pc.CreateDataChannel(label)
}

func (n *pionNegotiator) CreateOffer() (webrtc.SessionDescription, error) {
	return n.pc.CreateOffer()
}

func (n *pionNegotiator) CreateAnswer(offer webrtc.SessionDescription) (webrtc.SessionDescription, error) {
	if err := n.pc.SetRemoteDescription(offer); err != nil {
		return webrtc.SessionDescription{}, err
	}

	return n.pc.CreateAnswer()
}

func (n *pionNegotiator) SetRemoteDescription(sdp webrtc.SessionDescription) error {
	return n.pc.SetRemoteDescription(sdp)
}

func (n *pionNegotiator) AddICECandidate(candidate webrtc.ICECandidateInit) error {
	return n.pc.AddICECandidate(candidate)
}

func (n *pionNegotiator) OnICECandidate(f func(webrtc.ICECandidateInit)) {
	n.pc.OnICECandidate(f)
}

func (n *pionNegotiator) OnDataChannel(f func(DataChannel)) {
	n.pc.OnDataChannel(func(dc *rallywebrtc.DataChannel) {
		f(dc)
	})
}

func (n *pionNegotiator) OnConnectionStateChange(f func(webrtc.PeerConnectionState)) {
	n.pc.OnConnectionStateChange(f)
}

func (n *pionNegotiator) Close() error {
	return n.pc.Close()
}
